package model

import "encoding/json"

// ItemDetails holds the nutrition block of an item's recipe page, every
// field is independently optional since the page may omit any of them.
type ItemDetails struct {
	Description *string `json:"description,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
	Allergens   *string `json:"allergens,omitempty"`
}

type Item struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	RecipeLink string       `json:"recipe_link"`
	Details    *ItemDetails `json:"details,omitempty"`
}

func (i *Item) SetDetails(details ItemDetails) {
	i.Details = &details
}

type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// RestaurantMenu is a single fetched page: one restaurant, one meal, one date.
type RestaurantMenu struct {
	Date       string     `json:"date"`
	Restaurant Restaurant `json:"restaurant"`
	Meal       Meal       `json:"meal"`
	Sections   []Section  `json:"sections"`
}

type MenuMeal struct {
	Meal     Meal      `json:"meal"`
	Sections []Section `json:"sections"`
}

type Menu struct {
	Restaurant Restaurant `json:"restaurant"`
	Meals      []MenuMeal `json:"meals"`
}

type DateMenu struct {
	Date        string `json:"date"`
	Restaurants []Menu `json:"restaurants"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// collections are always rendered as arrays, never as null

func (s Section) MarshalJSON() ([]byte, error) {
	type section Section
	s.Items = nonNil(s.Items)
	return json.Marshal(section(s))
}

func (m RestaurantMenu) MarshalJSON() ([]byte, error) {
	type restaurantMenu RestaurantMenu
	m.Sections = nonNil(m.Sections)
	return json.Marshal(restaurantMenu(m))
}

func (m MenuMeal) MarshalJSON() ([]byte, error) {
	type menuMeal MenuMeal
	m.Sections = nonNil(m.Sections)
	return json.Marshal(menuMeal(m))
}

func (m Menu) MarshalJSON() ([]byte, error) {
	type menu Menu
	m.Meals = nonNil(m.Meals)
	return json.Marshal(menu(m))
}

func (m DateMenu) MarshalJSON() ([]byte, error) {
	type dateMenu DateMenu
	m.Restaurants = nonNil(m.Restaurants)
	return json.Marshal(dateMenu(m))
}
