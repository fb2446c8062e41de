package model

import (
	"fmt"
	"strings"
)

func orPlaceholder(s *string, placeholder string) string {
	if s == nil {
		return placeholder
	}
	return *s
}

func (d ItemDetails) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "Description: %s\n", orPlaceholder(d.Description, "no description"))
	fmt.Fprintf(&out, "  Ingredients: %s\n", orPlaceholder(d.Ingredients, "no ingredients"))
	fmt.Fprintf(&out, "  Allergens: %s\n", orPlaceholder(d.Allergens, "no allergens"))
	return out.String()
}

func (i Item) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "  ID: %s\n", i.ID)
	fmt.Fprintf(&out, "  Name: %s\n", i.Name)
	fmt.Fprintf(&out, "  Recipe Link: %s\n", i.RecipeLink)
	if i.Details == nil {
		out.WriteString("  Details Not Downloaded\n")
	} else {
		fmt.Fprintf(&out, "  %s\n", i.Details.String())
	}
	return out.String()
}

func (s Section) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "Section: %s\n\n", s.Name)
	for _, item := range s.Items {
		fmt.Fprintln(&out, item.String())
	}
	return out.String()
}

func (m RestaurantMenu) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s %s for %s\n", m.Date, m.Meal.Name(), m.Restaurant.Name())
	out.WriteString("---------------------------------\n")
	for _, section := range m.Sections {
		fmt.Fprintln(&out, section.String())
	}
	return out.String()
}

// Fragments splits a DateMenu back into one RestaurantMenu per meal, in
// fold order.
func (d DateMenu) Fragments() []RestaurantMenu {
	var out []RestaurantMenu
	for _, menu := range d.Restaurants {
		for _, meal := range menu.Meals {
			out = append(out, RestaurantMenu{
				Date:       d.Date,
				Restaurant: menu.Restaurant,
				Meal:       meal.Meal,
				Sections:   meal.Sections,
			})
		}
	}
	return out
}

func (d DateMenu) String() string {
	var out strings.Builder
	for _, fragment := range d.Fragments() {
		out.WriteString(fragment.String())
	}
	return out.String()
}
