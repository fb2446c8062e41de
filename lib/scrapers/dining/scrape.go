package dining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/scrapers/dining/request"

	"go.opentelemetry.io/otel/attribute"
)

type ScrapeOptions struct {
	// Concurrency bounds the number of pages fetched at once, values
	// below 1 fetch one page at a time.
	Concurrency int
	// WithDetails fetches the recipe page of every item and attaches its
	// details. A failed detail fetch leaves the item without details.
	WithDetails bool
	// OnProgress is called once per request after it has been fetched or
	// skipped, calls never overlap.
	OnProgress func(req request.MenuRequest, err error)
}

type Failure struct {
	Request request.MenuRequest
	Err     error
}

type Result struct {
	// Menus holds one DateMenu per requested date in the order the dates
	// first appear in the requests.
	Menus    []model.DateMenu
	Failures []Failure
}

// Err joins the failures of every skipped request.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.Request, f.Err)
	}
	return errors.Join(errs...)
}

// StorableMenus leaves out the dates that came back empty because their
// pages failed, storing those would replace a good menu with nothing.
func (r Result) StorableMenus() []model.DateMenu {
	failed := make(map[string]bool)
	for _, f := range r.Failures {
		failed[f.Request.Date] = true
	}

	menus := make([]model.DateMenu, 0, len(r.Menus))
	for _, menu := range r.Menus {
		if len(menu.Restaurants) == 0 && failed[menu.Date] {
			continue
		}
		menus = append(menus, menu)
	}
	return menus
}

func requestDates(reqs []request.MenuRequest) []string {
	seen := make(map[string]struct{})
	var dates []string
	for _, r := range reqs {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	return dates
}

// Scrape fetches every request and folds the resulting pages into one
// DateMenu per date. A request that fails to fetch is skipped and
// recorded in Result.Failures, it never stops the others.
func (c *Client) Scrape(ctx context.Context, reqs []request.MenuRequest, opts ScrapeOptions) Result {
	ctx, span := tracer.Start(ctx, "client:Scrape")
	defer span.End()
	span.SetAttributes(
		attribute.Int("requests", len(reqs)),
		attribute.Bool("with_details", opts.WithDetails),
	)

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	fragments := make([]*model.RestaurantMenu, len(reqs))
	errs := make([]error, len(reqs))
	progressLock := sync.Mutex{}
	wg := sync.WaitGroup{}
	sem := make(chan struct{}, concurrency)

	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fragment, err := c.FetchMenu(ctx, req)
			if err == nil {
				if opts.WithDetails {
					c.enrich(ctx, &fragment)
				}
				fragments[i] = &fragment
			}
			errs[i] = err

			progressLock.Lock()
			defer progressLock.Unlock()

			if err != nil {
				slog.WarnContext(ctx, "skipped menu page", "request", req.String(), "err", err)
			}
			if opts.OnProgress != nil {
				opts.OnProgress(req, err)
			}
		}()
	}

	wg.Wait()

	// fold in request order, not completion order
	var failures []Failure
	collector := model.NewCollector(requestDates(reqs)...)
	for i, fragment := range fragments {
		if errs[i] != nil {
			failures = append(failures, Failure{Request: reqs[i], Err: errs[i]})
			continue
		}
		collector.Add(*fragment)
	}

	menus := collector.Menus()
	for _, menu := range menus {
		for _, dup := range menu.DuplicateMeals() {
			slog.WarnContext(
				ctx, "meal added twice for the same restaurant",
				"date", menu.Date,
				"restaurant", dup.Restaurant.Name(),
				"meal", dup.Meal.Name(),
			)
		}
	}

	span.SetAttributes(attribute.Int("failures", len(failures)))
	return Result{
		Menus:    menus,
		Failures: failures,
	}
}

func (c *Client) enrich(ctx context.Context, fragment *model.RestaurantMenu) {
	for si := range fragment.Sections {
		items := fragment.Sections[si].Items
		for ii := range items {
			details, err := c.FetchDetails(ctx, items[ii])
			if err != nil {
				slog.WarnContext(
					ctx, "failed to fetch item details",
					"item_id", items[ii].ID,
					"err", err,
				)
				continue
			}
			items[ii].SetDetails(details)
		}
	}
}
