package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string {
	return &s
}

func sampleRestaurantMenu() RestaurantMenu {
	return RestaurantMenu{
		Date:       "2021-09-30",
		Restaurant: DeNeve,
		Meal:       Lunch,
		Sections: []Section{
			{
				Name: "Flex Bar",
				Items: []Item{
					{
						ID:         "977026",
						Name:       "Italian Minestrone Soup",
						RecipeLink: "http://menu.dining.ucla.edu/Recipes/977026/6",
						Details: &ItemDetails{
							Description: strptr("A hearty vegetable soup"),
							Allergens:   strptr("Wheat, Gluten"),
						},
					},
					{
						ID:         "977085",
						Name:       "Turkey & Rice Soup",
						RecipeLink: "http://menu.dining.ucla.edu/Recipes/977085/6",
					},
				},
			},
			{Name: "Closed Station", Items: []Item{}},
		},
	}
}

func TestVerboseItem(t *testing.T) {
	item := Item{
		ID:         "977026",
		Name:       "Italian Minestrone Soup",
		RecipeLink: "http://menu.dining.ucla.edu/Recipes/977026/6",
	}
	encoded, err := json.Marshal(item)
	require.NoError(t, err)
	require.Equal(
		t,
		`{"id":"977026","name":"Italian Minestrone Soup","recipe_link":"http://menu.dining.ucla.edu/Recipes/977026/6"}`,
		string(encoded),
	)

	item.SetDetails(ItemDetails{Ingredients: strptr("Beef")})
	encoded, err = json.Marshal(item)
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"details":{"ingredients":"Beef"}`)
}

func TestVerboseRoundTrip(t *testing.T) {
	original := sampleRestaurantMenu()

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(
		string(encoded),
		`{"date":"2021-09-30","restaurant":"De Neve","meal":"Lunch","sections":[`,
	))

	var decoded RestaurantMenu
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Fatal(diff)
	}

	dateMenu := Fold(original.Date, []RestaurantMenu{original})
	encoded, err = json.Marshal(dateMenu)
	require.NoError(t, err)

	var decodedDate DateMenu
	require.NoError(t, json.Unmarshal(encoded, &decodedDate))
	if diff := cmp.Diff(dateMenu, decodedDate); diff != "" {
		t.Fatal(diff)
	}
}

func TestVerboseEmptyCollections(t *testing.T) {
	testCases := []struct {
		node   any
		expect string
	}{
		{node: Section{Name: "Closed"}, expect: `{"name":"Closed","items":[]}`},
		{node: MenuMeal{Meal: Dinner}, expect: `{"meal":"Dinner","sections":[]}`},
		{node: Menu{Restaurant: Epicuria}, expect: `{"restaurant":"Epicuria","meals":[]}`},
		{node: DateMenu{Date: "2021-09-30"}, expect: `{"date":"2021-09-30","restaurants":[]}`},
		{
			node:   RestaurantMenu{Date: "2021-09-30", Restaurant: BruinPlate, Meal: Breakfast},
			expect: `{"date":"2021-09-30","restaurant":"Bruin Plate","meal":"Breakfast","sections":[]}`,
		},
	}

	for _, test := range testCases {
		encoded, err := json.Marshal(test.node)
		require.NoError(t, err)
		require.Equal(t, test.expect, string(encoded))
	}

	var decoded Section
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Closed","items":[]}`), &decoded))
	if diff := cmp.Diff(Section{Name: "Closed"}, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Fatal(diff)
	}
}

func TestCompact(t *testing.T) {
	menu := RestaurantMenu{
		Date:       "2021-09-30",
		Restaurant: DeNeve,
		Meal:       Lunch,
		Sections: []Section{
			{
				Name: "Flex Bar",
				Items: []Item{
					{
						ID:         "977026",
						Name:       "Italian Minestrone Soup",
						RecipeLink: "http://menu.dining.ucla.edu/Recipes/977026/6",
						Details:    &ItemDetails{Description: strptr("dropped")},
					},
				},
			},
			{Name: "Closed Station"},
		},
	}

	encoded, err := MarshalCompact(menu)
	require.NoError(t, err)
	require.Equal(
		t,
		`["2021-09-30","De Neve","Lunch",[["Flex Bar",[["977026","Italian Minestrone Soup"]]],["Closed Station",[]]]]`,
		string(encoded),
	)

	dateMenu := Fold(menu.Date, []RestaurantMenu{menu})
	encoded, err = MarshalCompact(dateMenu)
	require.NoError(t, err)
	require.Equal(
		t,
		`["2021-09-30",[["De Neve",[["Lunch",[["Flex Bar",[["977026","Italian Minestrone Soup"]]],["Closed Station",[]]]]]]]]`,
		string(encoded),
	)

	encoded, err = MarshalCompact(DateMenu{Date: "2021-10-01"})
	require.NoError(t, err)
	require.Equal(t, `["2021-10-01",[]]`, string(encoded))

	encoded, err = json.Marshal(CompactAll([]Item{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}))
	require.NoError(t, err)
	require.Equal(t, `[["1","a"],["2","b"]]`, string(encoded))
}

func TestDisplay(t *testing.T) {
	menu := sampleRestaurantMenu()
	rendered := menu.String()

	require.True(t, strings.HasPrefix(rendered, "2021-09-30 Lunch for De Neve\n---------------------------------\n"))
	require.Contains(t, rendered, "Section: Flex Bar\n\n")
	require.Contains(t, rendered, "  ID: 977026\n  Name: Italian Minestrone Soup\n")
	require.Contains(t, rendered, "  Recipe Link: http://menu.dining.ucla.edu/Recipes/977085/6\n  Details Not Downloaded\n")
	require.Contains(t, rendered, "Description: A hearty vegetable soup\n")
	require.Contains(t, rendered, "  Ingredients: no ingredients\n")
	require.Contains(t, rendered, "  Allergens: Wheat, Gluten\n")
	require.Contains(t, rendered, "Section: Closed Station\n")

	details := ItemDetails{}
	require.Equal(
		t,
		"Description: no description\n  Ingredients: no ingredients\n  Allergens: no allergens\n",
		details.String(),
	)

	dateMenu := Fold(menu.Date, []RestaurantMenu{menu})
	require.Equal(t, rendered, dateMenu.String())
}
