package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: "Bruin Plate", expect: "bruinplate"},
		{input: "  De\tNeve\n", expect: "deneve"},
		{input: "Epicuria", expect: "epicuria"},
		{input: "", expect: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, NormalizeName(test.input))
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"Bruin Plate", "De Neve", "Epicuria"}

	testCases := []struct {
		name        string
		expectIndex int
		exact       bool
	}{
		{name: "BruinPlate", expectIndex: 0, exact: true},
		{name: "de neve", expectIndex: 1, exact: true},
		{name: "epicuria", expectIndex: 2, exact: true},
		{name: "bruin", expectIndex: 0},
		{name: "denev", expectIndex: 1},
		{name: "epicura", expectIndex: 2},
	}

	for _, test := range testCases {
		idx, similarity := BestMatch(test.name, candidates)
		require.Equal(t, test.expectIndex, idx, test.name)
		if test.exact {
			require.Equal(t, float64(1), similarity)
		} else {
			require.Less(t, similarity, float64(1))
			require.Greater(t, similarity, float64(0))
		}
	}

	idx, similarity := BestMatch("anything", nil)
	require.Equal(t, -1, idx)
	require.Equal(t, float64(0), similarity)
}
