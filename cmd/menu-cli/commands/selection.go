package commands

import (
	"errors"
	"fmt"

	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/scrapers/dining/request"
	"bruinmenu/lib/textutil"
	"bruinmenu/lib/timezone"

	"github.com/spf13/cobra"
)

// names closer than this are accepted as a typo of the candidate
const minNameSimilarity = 0.85

type selection struct {
	all         bool
	days        int
	dates       []string
	restaurants []string
	meals       []string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.all, "all", false, "Select the current week.")
	cmd.Flags().IntVar(&s.days, "days", 0, "Select this many days starting today.")
	cmd.Flags().StringArrayVar(&s.dates, "date", nil, "Select a date (YYYY-MM-DD), can be repeated.")
	cmd.Flags().StringArrayVar(&s.restaurants, "restaurant", nil, "Only select this restaurant, can be repeated.")
	cmd.Flags().StringArrayVar(&s.meals, "meal", nil, "Only select this meal, can be repeated.")
}

func (s selection) resolveDates() ([]string, error) {
	var dates []string
	if s.all {
		dates = append(dates, timezone.CurrentWeek()...)
	}
	if s.days > 0 {
		dates = append(dates, timezone.Days(timezone.Now(), s.days)...)
	}
	dates = append(dates, s.dates...)
	if len(dates) == 0 {
		return nil, errors.New("no dates selected, pass --all, --days or --date")
	}

	seen := make(map[string]bool)
	unique := dates[:0:0]
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}
	return unique, nil
}

func (s selection) requests() ([]request.MenuRequest, error) {
	if s.all && s.days == 0 && len(s.dates)+len(s.restaurants)+len(s.meals) == 0 {
		return request.ForCurrentWeek()
	}

	dates, err := s.resolveDates()
	if err != nil {
		return nil, err
	}
	restaurants, err := resolveNames("restaurant", s.restaurants, model.Restaurants())
	if err != nil {
		return nil, err
	}
	meals, err := resolveNames("meal", s.meals, model.Meals())
	if err != nil {
		return nil, err
	}
	return request.Filtered(dates, restaurants, meals)
}

type named interface {
	comparable
	Name() string
}

// resolveNames maps user input onto the closest known values, keeping
// declaration order. No input selects everything.
func resolveNames[T named](kind string, input []string, all []T) ([]T, error) {
	if len(input) == 0 {
		return all, nil
	}

	candidates := make([]string, len(all))
	for i, v := range all {
		candidates[i] = v.Name()
	}

	selected := make(map[T]bool)
	for _, name := range input {
		idx, similarity := textutil.BestMatch(name, candidates)
		if idx < 0 || similarity < minNameSimilarity {
			return nil, fmt.Errorf("unknown %s %q", kind, name)
		}
		selected[all[idx]] = true
	}

	var out []T
	for _, v := range all {
		if selected[v] {
			out = append(out, v)
		}
	}
	return out, nil
}
