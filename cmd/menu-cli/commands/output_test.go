package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bruinmenu/lib/scrapers/dining/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string {
	return &s
}

func sampleMenus() []model.DateMenu {
	return []model.DateMenu{
		{
			Date: "2021-09-30",
			Restaurants: []model.Menu{{
				Restaurant: model.Epicuria,
				Meals: []model.MenuMeal{{
					Meal: model.Dinner,
					Sections: []model.Section{{
						Name: "Mezze",
						Items: []model.Item{{
							ID:         "080100",
							Name:       "Hummus",
							RecipeLink: "http://menu.dining.ucla.edu/Recipes/080100/1",
							Details:    &model.ItemDetails{Allergens: strptr("Sesame")},
						}},
					}},
				}},
			}},
		},
		{Date: "2021-10-01", Restaurants: []model.Menu{}},
	}
}

func TestWriteMenusVerbose(t *testing.T) {
	menus := sampleMenus()

	var single bytes.Buffer
	require.NoError(t, writeMenus(&single, formatVerbose, menus[:1]))
	var pulled model.DateMenu
	require.NoError(t, json.Unmarshal(single.Bytes(), &pulled))
	if diff := cmp.Diff(menus[0], pulled); diff != "" {
		t.Fatal(diff)
	}

	var multiple bytes.Buffer
	require.NoError(t, writeMenus(&multiple, formatVerbose, menus))
	var pulledAll []model.DateMenu
	require.NoError(t, json.Unmarshal(multiple.Bytes(), &pulledAll))
	if diff := cmp.Diff(menus, pulledAll); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteMenusCompact(t *testing.T) {
	menus := sampleMenus()

	var out bytes.Buffer
	require.NoError(t, writeMenus(&out, formatCompact, menus))
	require.Equal(
		t,
		`[["2021-09-30",[["Epicuria",[["Dinner",[["Mezze",[["080100","Hummus"]]]]]]]]],["2021-10-01",[]]]`+"\n",
		out.String(),
	)

	out.Reset()
	require.NoError(t, writeMenus(&out, formatCompact, menus[1:]))
	require.Equal(t, `["2021-10-01",[]]`+"\n", out.String())
}

func TestWriteMenusText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeMenus(&out, formatText, sampleMenus()))
	text := out.String()
	require.True(t, strings.HasPrefix(text, "2021-09-30 Dinner for Epicuria\n"))
	require.Contains(t, text, "Allergens: Sesame")
	require.Contains(t, text, "Description: no description")
}

func TestWriteMenusTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeMenus(&out, formatTable, sampleMenus()))
	require.Contains(t, out.String(), "Hummus")
	require.Contains(t, out.String(), "Sesame")
}

func TestWriteMenusUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, writeMenus(&out, "yaml", sampleMenus()))
	require.Empty(t, out.String())
}
