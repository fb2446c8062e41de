package menuapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bruinmenu/lib/menustore"
	"bruinmenu/lib/scrapers/dining"
	"bruinmenu/lib/scrapers/dining/request"
	"bruinmenu/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("bruinmenu.services.menuapi")

type Scraper interface {
	Scrape(ctx context.Context, reqs []request.MenuRequest, opts dining.ScrapeOptions) dining.Result
}

type Options struct {
	// Scraper is optional, without it the service only serves what is
	// already stored.
	Scraper         Scraper
	RefreshInterval time.Duration
	// Days is the number of days starting today that a refresh fetches.
	Days        int
	Concurrency int
	WithDetails bool
}

type Service struct {
	store menustore.Store
	Options
}

func NewService(ctx context.Context, store menustore.Store, options Options) Service {
	if options.Days <= 0 {
		options.Days = 7
	}

	s := Service{
		store:   store,
		Options: options,
	}
	if s.Scraper != nil && s.RefreshInterval > 0 {
		go s.refreshWorker(ctx)
	}
	return s
}

func (s Service) refreshWorker(ctx context.Context) {
	s.refreshLogged(ctx)

	ticker := time.NewTicker(s.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshLogged(ctx)
		}
	}
}

func (s Service) refreshLogged(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "cron_job:refresh_menus")
	defer span.End()

	err := s.Refresh(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to refresh menus", "err", err)
	}
}

// Refresh scrapes the configured days and stores the result. A date
// whose menu came back empty is not stored if any of its pages failed,
// so a flaky fetch never replaces a good menu.
func (s Service) Refresh(ctx context.Context) error {
	if s.Scraper == nil {
		return errors.New("no scraper configured")
	}

	ctx, span := tracer.Start(ctx, "service:Refresh")
	defer span.End()

	reqs, err := request.ForDates(timezone.Days(timezone.Now(), s.Days))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate requests")
		return err
	}

	result := s.Scraper.Scrape(ctx, reqs, dining.ScrapeOptions{
		Concurrency: s.Concurrency,
		WithDetails: s.WithDetails,
	})

	menus := result.StorableMenus()
	if skipped := len(result.Menus) - len(menus); skipped > 0 {
		slog.WarnContext(ctx, "not storing empty menus of failed dates", "dates", skipped)
	}

	span.SetAttributes(
		attribute.Int("menus", len(menus)),
		attribute.Int("failures", len(result.Failures)),
	)
	slog.InfoContext(
		ctx, "refreshed menus",
		"stored", len(menus),
		"skipped_pages", len(result.Failures),
	)

	if len(menus) == 0 {
		return nil
	}
	return s.store.Push(ctx, timezone.Now(), menus...)
}

type storedDate struct {
	Date      string `json:"date"`
	FetchedAt int64  `json:"fetched_at"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var dateErr *request.DateFormatError
	switch {
	case errors.As(err, &dateErr):
		status = http.StatusBadRequest
	case errors.Is(err, menustore.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /menus", s.listMenus)
	mux.HandleFunc("GET /menus/{date}", s.getMenu)
	mux.HandleFunc("GET /menus/{date}/compact", s.getCompactMenu)
	mux.HandleFunc("GET /items/{id}", s.getItem)
	mux.HandleFunc("POST /refresh", s.refresh)
	return mux
}

func (s Service) listMenus(w http.ResponseWriter, r *http.Request) {
	dates, err := s.store.Dates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]storedDate, len(dates))
	for i, d := range dates {
		out[i] = storedDate{Date: d.Date, FetchedAt: d.FetchedAt.Unix()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s Service) getMenu(w http.ResponseWriter, r *http.Request) {
	date, err := request.ValidateDate(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	menu, err := s.store.Pull(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (s Service) getCompactMenu(w http.ResponseWriter, r *http.Request) {
	date, err := request.ValidateDate(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	compact, err := s.store.PullCompact(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.Write([]byte(compact))
}

func (s Service) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.Item(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s Service) refresh(w http.ResponseWriter, r *http.Request) {
	if s.Scraper == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "refresh is disabled"})
		return
	}
	err := s.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
