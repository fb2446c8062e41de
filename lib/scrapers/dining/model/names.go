package model

import (
	"fmt"

	"bruinmenu/lib/textutil"
)

type Restaurant int

const (
	BruinPlate Restaurant = iota
	DeNeve
	Epicuria
)

// Restaurants lists every restaurant in declaration order.
func Restaurants() []Restaurant {
	return []Restaurant{BruinPlate, DeNeve, Epicuria}
}

func (r Restaurant) Name() string {
	switch r {
	case BruinPlate:
		return "Bruin Plate"
	case DeNeve:
		return "De Neve"
	case Epicuria:
		return "Epicuria"
	}
	return fmt.Sprintf("Restaurant(%d)", int(r))
}

func (r Restaurant) URLName() string {
	switch r {
	case BruinPlate:
		return "BruinPlate"
	case DeNeve:
		return "DeNeve"
	case Epicuria:
		return "Epicuria"
	}
	return fmt.Sprintf("Restaurant(%d)", int(r))
}

func (r Restaurant) String() string {
	return r.Name()
}

func (r Restaurant) valid() bool {
	return r >= BruinPlate && r <= Epicuria
}

func (r Restaurant) MarshalText() ([]byte, error) {
	if !r.valid() {
		return nil, fmt.Errorf("unknown restaurant %d", int(r))
	}
	return []byte(r.Name()), nil
}

func (r *Restaurant) UnmarshalText(text []byte) error {
	parsed, err := ParseRestaurant(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRestaurant accepts either the display name or the url name of a
// restaurant, ignoring case and whitespace.
func ParseRestaurant(name string) (Restaurant, error) {
	normalized := textutil.NormalizeName(name)
	for _, r := range Restaurants() {
		if normalized == textutil.NormalizeName(r.Name()) ||
			normalized == textutil.NormalizeName(r.URLName()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown restaurant %q", name)
}

type Meal int

const (
	Breakfast Meal = iota
	Lunch
	Dinner
)

// Meals lists every meal in declaration order.
func Meals() []Meal {
	return []Meal{Breakfast, Lunch, Dinner}
}

func (m Meal) Name() string {
	switch m {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	}
	return fmt.Sprintf("Meal(%d)", int(m))
}

func (m Meal) URLName() string {
	switch m {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	}
	return fmt.Sprintf("Meal(%d)", int(m))
}

func (m Meal) String() string {
	return m.Name()
}

func (m Meal) valid() bool {
	return m >= Breakfast && m <= Dinner
}

func (m Meal) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("unknown meal %d", int(m))
	}
	return []byte(m.Name()), nil
}

func (m *Meal) UnmarshalText(text []byte) error {
	parsed, err := ParseMeal(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func ParseMeal(name string) (Meal, error) {
	normalized := textutil.NormalizeName(name)
	for _, m := range Meals() {
		if normalized == textutil.NormalizeName(m.Name()) ||
			normalized == textutil.NormalizeName(m.URLName()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown meal %q", name)
}
