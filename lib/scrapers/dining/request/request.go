package request

import (
	"fmt"
	"strings"

	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/timezone"
)

const DefaultBaseUrl = "http://menu.dining.ucla.edu"

type DateFormatError struct {
	Date string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", e.Date)
}

// ValidateDate checks that a date looks like YYYY-MM-DD. Only the shape
// is checked, "2021-13-99" is accepted.
func ValidateDate(date string) (string, error) {
	tokens := strings.Split(date, "-")
	if len(tokens) != 3 {
		return "", &DateFormatError{Date: date}
	}

	lengths := []int{4, 2, 2}
	for i, token := range tokens {
		if len(token) != lengths[i] {
			return "", &DateFormatError{Date: date}
		}
		for _, c := range token {
			if c < '0' || c > '9' {
				return "", &DateFormatError{Date: date}
			}
		}
	}

	return date, nil
}

// MenuRequest identifies a single menu page.
type MenuRequest struct {
	Date       string
	Restaurant model.Restaurant
	Meal       model.Meal
}

func (r MenuRequest) URL(baseUrl string) string {
	return fmt.Sprintf(
		"%s/Menus/%s/%s/%s",
		strings.TrimRight(baseUrl, "/"),
		r.Restaurant.URLName(),
		r.Date,
		r.Meal.URLName(),
	)
}

func (r MenuRequest) String() string {
	return fmt.Sprintf("%s %s for %s", r.Date, r.Meal.Name(), r.Restaurant.Name())
}

// ForDates expands every restaurant, date and meal into a request, in
// that nesting order. All dates are validated before anything is
// generated, the first invalid date fails the whole call.
func ForDates(dates []string) ([]MenuRequest, error) {
	return Filtered(dates, model.Restaurants(), model.Meals())
}

// Filtered is ForDates restricted to a subset of restaurants and meals,
// the given orders are kept.
func Filtered(dates []string, restaurants []model.Restaurant, meals []model.Meal) ([]MenuRequest, error) {
	for _, d := range dates {
		_, err := ValidateDate(d)
		if err != nil {
			return nil, err
		}
	}

	requests := make([]MenuRequest, 0, len(restaurants)*len(dates)*len(meals))
	for _, r := range restaurants {
		for _, d := range dates {
			for _, m := range meals {
				requests = append(requests, MenuRequest{
					Date:       d,
					Restaurant: r,
					Meal:       m,
				})
			}
		}
	}
	return requests, nil
}

func ForCurrentWeek() ([]MenuRequest, error) {
	return ForDates(timezone.CurrentWeek())
}

// ItemRequest identifies the recipe page of an item. The url is the
// item's recipe link as published, the variant segment at its end is not
// reconstructed.
type ItemRequest struct {
	ID  string
	URL string
}

func ForItem(item model.Item) ItemRequest {
	return ItemRequest{ID: item.ID, URL: item.RecipeLink}
}
