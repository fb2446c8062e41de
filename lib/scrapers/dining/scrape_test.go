package dining

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/scrapers/dining/request"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type menuServer struct {
	*httptest.Server
	lock sync.Mutex
	hits map[string]int
}

func (s *menuServer) hitCount(path string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.hits[path]
}

func strptr(s string) *string {
	return &s
}

func newMenuServer(t testing.TB) *menuServer {
	s := &menuServer{hits: map[string]int{}}
	mux := http.NewServeMux()

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.hits[r.URL.Path]++
		s.lock.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	mux.HandleFunc("/Menus/DeNeve/2021-09-30/Lunch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<ul>
	<li class="sect-item">
		Flex Bar
		<ul>
			<li class="menu-item"><a class="recipelink" href="%[1]s/Recipes/977026/6">Italian Minestrone Soup</a></li>
			<li class="menu-item"><a class="recipelink" href="%[1]s/Recipes/977085/6">Turkey &amp; Rice Soup</a></li>
		</ul>
	</li>
</ul>`, s.URL)
	})
	mux.HandleFunc("/Menus/BruinPlate/2021-09-30/Dinner", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<ul>
	<li class="sect-item">
		Freshly Bowled
		<ul>
			<li class="menu-item"><a class="recipelink" href="%s/Recipes/141301/2">Roasted Vegetables</a></li>
		</ul>
	</li>
</ul>`, s.URL)
	})
	mux.HandleFunc("/Recipes/977026/6", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="productinfo"><div class="description"> Tomato, Onion, Celery </div></div>`))
	})
	mux.HandleFunc("/Recipes/141301/2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="productinfo"><div class="description">Zucchini</div></div>`))
	})
	mux.HandleFunc("/Recipes/977085/6", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	return s
}

func newTestClient(t testing.TB, baseUrl string, opts ClientOptions) *Client {
	opts.BaseUrl = baseUrl
	client, err := NewClient(opts)
	require.NoError(t, err)
	return client
}

func TestScrape(t *testing.T) {
	server := newMenuServer(t)
	client := newTestClient(t, server.URL, ClientOptions{})

	reqs, err := request.Filtered(
		[]string{"2021-09-30"},
		[]model.Restaurant{model.BruinPlate, model.DeNeve},
		[]model.Meal{model.Lunch, model.Dinner},
	)
	require.NoError(t, err)

	var progress []string
	result := client.Scrape(context.Background(), reqs, ScrapeOptions{
		Concurrency: 3,
		WithDetails: true,
		OnProgress: func(req request.MenuRequest, err error) {
			progress = append(progress, req.String())
		},
	})

	require.Len(t, progress, 4)
	require.ElementsMatch(t, []string{
		"2021-09-30 Lunch for Bruin Plate",
		"2021-09-30 Dinner for Bruin Plate",
		"2021-09-30 Lunch for De Neve",
		"2021-09-30 Dinner for De Neve",
	}, progress)

	expected := []model.DateMenu{
		{
			Date: "2021-09-30",
			Restaurants: []model.Menu{
				{
					Restaurant: model.BruinPlate,
					Meals: []model.MenuMeal{{
						Meal: model.Dinner,
						Sections: []model.Section{{
							Name: "Freshly Bowled",
							Items: []model.Item{{
								ID:         "141301",
								Name:       "Roasted Vegetables",
								RecipeLink: server.URL + "/Recipes/141301/2",
								Details:    &model.ItemDetails{Description: strptr("Zucchini")},
							}},
						}},
					}},
				},
				{
					Restaurant: model.DeNeve,
					Meals: []model.MenuMeal{{
						Meal: model.Lunch,
						Sections: []model.Section{{
							Name: "Flex Bar",
							Items: []model.Item{
								{
									ID:         "977026",
									Name:       "Italian Minestrone Soup",
									RecipeLink: server.URL + "/Recipes/977026/6",
									Details:    &model.ItemDetails{Description: strptr("Tomato, Onion, Celery")},
								},
								{
									ID:         "977085",
									Name:       "Turkey & Rice Soup",
									RecipeLink: server.URL + "/Recipes/977085/6",
								},
							},
						}},
					}},
				},
			},
		},
	}
	if diff := cmp.Diff(expected, result.Menus); diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, result.Failures, 2)
	require.Equal(t, "2021-09-30 Lunch for Bruin Plate", result.Failures[0].Request.String())
	require.Equal(t, "2021-09-30 Dinner for De Neve", result.Failures[1].Request.String())
	for _, failure := range result.Failures {
		var fetchErr *FetchError
		require.True(t, errors.As(failure.Err, &fetchErr))
		require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	}
	require.Error(t, result.Err())
}

func TestScrapeWithoutDetails(t *testing.T) {
	server := newMenuServer(t)
	client := newTestClient(t, server.URL, ClientOptions{})

	reqs, err := request.Filtered(
		[]string{"2021-09-30", "2021-10-01"},
		[]model.Restaurant{model.DeNeve},
		[]model.Meal{model.Lunch},
	)
	require.NoError(t, err)

	result := client.Scrape(context.Background(), reqs, ScrapeOptions{})

	require.Len(t, result.Menus, 2)
	require.Equal(t, "2021-09-30", result.Menus[0].Date)
	require.Len(t, result.Menus[0].Restaurants, 1)
	for _, item := range result.Menus[0].Restaurants[0].Meals[0].Sections[0].Items {
		require.Nil(t, item.Details)
	}

	// the date is kept even though its only page failed
	require.Equal(t, "2021-10-01", result.Menus[1].Date)
	require.Empty(t, result.Menus[1].Restaurants)
	require.Len(t, result.Failures, 1)

	storable := result.StorableMenus()
	require.Len(t, storable, 1)
	require.Equal(t, "2021-09-30", storable[0].Date)

	require.Zero(t, server.hitCount("/Recipes/977026/6"))
}

func TestStorableMenus(t *testing.T) {
	failure := func(date string) Failure {
		return Failure{
			Request: request.MenuRequest{Date: date, Restaurant: model.Epicuria, Meal: model.Dinner},
			Err:     &FetchError{StatusCode: http.StatusInternalServerError},
		}
	}
	served := model.Fold("2021-09-30", []model.RestaurantMenu{{
		Restaurant: model.Epicuria,
		Meal:       model.Lunch,
		Sections:   []model.Section{{Name: "Mezze", Items: []model.Item{}}},
	}})

	result := Result{
		Menus: []model.DateMenu{
			// partially failed, still has a meal
			served,
			// every page failed
			model.Fold("2021-10-01", nil),
			// nothing was served, nothing failed
			model.Fold("2021-10-02", nil),
		},
		Failures: []Failure{failure("2021-09-30"), failure("2021-10-01")},
	}

	storable := result.StorableMenus()
	require.Len(t, storable, 2)
	require.Equal(t, "2021-09-30", storable[0].Date)
	require.Equal(t, "2021-10-02", storable[1].Date)

	require.Len(t, Result{Menus: result.Menus}.StorableMenus(), 3)
}

func TestFetchCache(t *testing.T) {
	server := newMenuServer(t)
	client := newTestClient(t, server.URL, ClientOptions{
		Cache:    openTestCache(t),
		CacheTTL: time.Hour,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, err := client.Fetch(ctx, server.URL+"/Recipes/977026/6")
		require.NoError(t, err)
		require.Contains(t, body, "Tomato, Onion, Celery")
	}
	require.Equal(t, 1, server.hitCount("/Recipes/977026/6"))

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(ctx, server.URL+"/Recipes/977085/6")
		require.Error(t, err)
	}
	require.Equal(t, 2, server.hitCount("/Recipes/977085/6"))
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	link := server.URL + "/Menus/Epicuria/2021-09-30/Dinner"
	server.Close()

	client := newTestClient(t, server.URL, ClientOptions{})
	_, err := client.Fetch(context.Background(), link)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, link, fetchErr.URL)
	require.Zero(t, fetchErr.StatusCode)
	require.Error(t, errors.Unwrap(err))
}
