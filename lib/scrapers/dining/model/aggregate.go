package model

import (
	"slices"
	"sync"
)

func NewDateMenu(date string) *DateMenu {
	return &DateMenu{Date: date, Restaurants: []Menu{}}
}

// AddRestaurant folds a single page into the date's menu. Fragments with
// no sections are dropped. Submitting the same restaurant and meal twice
// keeps both entries in call order, use DuplicateMeals to detect this.
func (d *DateMenu) AddRestaurant(fragment RestaurantMenu) {
	if len(fragment.Sections) == 0 {
		return
	}

	idx := -1
	for i, menu := range d.Restaurants {
		if menu.Restaurant == fragment.Restaurant {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.Restaurants = append(d.Restaurants, Menu{
			Restaurant: fragment.Restaurant,
			Meals:      []MenuMeal{},
		})
		idx = len(d.Restaurants) - 1
	}

	d.Restaurants[idx].Meals = append(d.Restaurants[idx].Meals, MenuMeal{
		Meal:     fragment.Meal,
		Sections: fragment.Sections,
	})
}

type MealKey struct {
	Restaurant Restaurant
	Meal       Meal
}

// DuplicateMeals lists every (restaurant, meal) pair that appears more
// than once, in the order the second occurrence was folded.
func (d *DateMenu) DuplicateMeals() []MealKey {
	var duplicates []MealKey
	seen := make(map[MealKey]int)
	for _, menu := range d.Restaurants {
		for _, m := range menu.Meals {
			key := MealKey{Restaurant: menu.Restaurant, Meal: m.Meal}
			seen[key]++
			if seen[key] == 2 {
				duplicates = append(duplicates, key)
			}
		}
	}
	return duplicates
}

// Fold builds the menu for a date out of fragments belonging to that date.
func Fold(date string, fragments []RestaurantMenu) DateMenu {
	menu := NewDateMenu(date)
	for _, f := range fragments {
		menu.AddRestaurant(f)
	}
	return *menu
}

// Collector accumulates fragments from concurrent fetches into one
// DateMenu per date.
type Collector struct {
	lock  sync.Mutex
	order []string
	menus map[string]*DateMenu
}

// NewCollector creates a collector, the given dates fix the order Menus
// returns them in. Dates seen later through Add are appended.
func NewCollector(dates ...string) *Collector {
	c := &Collector{menus: make(map[string]*DateMenu)}
	for _, d := range dates {
		c.register(d)
	}
	return c
}

func (c *Collector) register(date string) *DateMenu {
	menu, ok := c.menus[date]
	if !ok {
		menu = NewDateMenu(date)
		c.menus[date] = menu
		c.order = append(c.order, date)
	}
	return menu
}

// Add folds a fragment into its date.
func (c *Collector) Add(fragment RestaurantMenu) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.register(fragment.Date).AddRestaurant(fragment)
}

// Menus returns a copy of every menu collected so far, later calls to Add
// do not change it.
func (c *Collector) Menus() []DateMenu {
	c.lock.Lock()
	defer c.lock.Unlock()

	out := make([]DateMenu, len(c.order))
	for i, date := range c.order {
		out[i] = c.menus[date].clone()
	}
	return out
}

// clone copies the restaurant and meal slices AddRestaurant appends to,
// sections are never modified once folded so they stay shared.
func (d *DateMenu) clone() DateMenu {
	restaurants := slices.Clone(d.Restaurants)
	for i := range restaurants {
		restaurants[i].Meals = slices.Clone(restaurants[i].Meals)
	}
	return DateMenu{Date: d.Date, Restaurants: restaurants}
}
