package commands

import (
	"testing"

	"bruinmenu/lib/scrapers/dining/model"

	"github.com/stretchr/testify/require"
)

func TestResolveNames(t *testing.T) {
	testCases := []struct {
		name   string
		input  []string
		expect []model.Restaurant
		err    bool
	}{
		{name: "empty selects all", input: nil, expect: model.Restaurants()},
		{name: "exact", input: []string{"De Neve"}, expect: []model.Restaurant{model.DeNeve}},
		{name: "url name", input: []string{"bruinplate"}, expect: []model.Restaurant{model.BruinPlate}},
		{name: "typo", input: []string{"epicuira"}, expect: []model.Restaurant{model.Epicuria}},
		{
			name:   "declaration order",
			input:  []string{"Epicuria", "Bruin Plate"},
			expect: []model.Restaurant{model.BruinPlate, model.Epicuria},
		},
		{name: "unknown", input: []string{"Rendezvous"}, err: true},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			out, err := resolveNames("restaurant", test.input, model.Restaurants())
			if test.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expect, out)
		})
	}
}

func TestSelectionRequests(t *testing.T) {
	s := selection{
		dates: []string{"2021-09-30", "2021-10-01", "2021-09-30"},
		meals: []string{"dinner"},
	}
	reqs, err := s.requests()
	require.NoError(t, err)
	require.Len(t, reqs, 6)
	require.Equal(t, "2021-09-30", reqs[0].Date)
	require.Equal(t, model.BruinPlate, reqs[0].Restaurant)
	require.Equal(t, model.Dinner, reqs[0].Meal)
	require.Equal(t, "2021-10-01", reqs[1].Date)

	_, err = selection{}.requests()
	require.Error(t, err)

	_, err = selection{dates: []string{"2021-9-30"}}.requests()
	require.Error(t, err)
}

func TestSelectionAll(t *testing.T) {
	week, err := selection{all: true}.requests()
	require.NoError(t, err)
	require.Len(t, week, len(model.Restaurants())*7*len(model.Meals()))

	dates := make(map[string]bool)
	for _, r := range week {
		dates[r.Date] = true
	}
	require.Len(t, dates, 7)

	filtered, err := selection{all: true, meals: []string{"lunch"}}.requests()
	require.NoError(t, err)
	require.Len(t, filtered, len(model.Restaurants())*7)
	for _, r := range filtered {
		require.Equal(t, model.Lunch, r.Meal)
	}
}
