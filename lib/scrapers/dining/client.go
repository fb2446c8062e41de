package dining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bruinmenu/lib/restyutil"
	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/scrapers/dining/parse"
	"bruinmenu/lib/scrapers/dining/request"
	"bruinmenu/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchError is returned when a page could not be retrieved, StatusCode
// is zero for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	BaseUrl string
	Http    *resty.Client
	cache   *PageCache
}

type ClientOptions struct {
	BaseUrl string
	Timeout time.Duration
	// Cache is optional, pages are always fetched when nil.
	Cache    *badger.DB
	CacheTTL time.Duration
	// Bypass wraps the transport with cloudflare's browser fingerprint.
	Bypass      bool
	DebugOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = request.DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(opts.Timeout)
	if opts.Bypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	telemetry.InstrumentResty(client, "bruinmenu.lib.scrapers.dining/http")
	restyutil.InstrumentClient(client, opts.DebugOutput)

	c := &Client{
		BaseUrl: opts.BaseUrl,
		Http:    client,
	}
	if opts.Cache != nil {
		cache, err := NewPageCache(opts.Cache, opts.BaseUrl, opts.CacheTTL)
		if err != nil {
			return nil, err
		}
		c.cache = &cache
	}
	return c, nil
}

// Fetch returns the body of the page at link. Only 200 responses count
// as success and only those are cached.
func (c *Client) Fetch(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, link)
		if err == nil {
			cacheHits.Add(ctx, 1)
			return string(cached), nil
		}
		if !errors.Is(err, ErrPageNotFound) {
			slog.WarnContext(ctx, "failed to read page cache", "url", link, "err", err)
		}
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		fetchFailures.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", &FetchError{URL: link, Err: err}
	}
	if res.StatusCode() != 200 {
		fetchFailures.Add(ctx, 1)
		span.SetStatus(codes.Error, "unexpected status code")
		return "", &FetchError{URL: link, StatusCode: res.StatusCode()}
	}

	body := res.Body()
	if c.cache != nil {
		err = c.cache.Set(ctx, link, body)
		if err != nil {
			slog.WarnContext(ctx, "failed to write page cache", "url", link, "err", err)
		}
	}
	return string(body), nil
}

// FetchMenu downloads and parses a single menu page.
func (c *Client) FetchMenu(ctx context.Context, req request.MenuRequest) (model.RestaurantMenu, error) {
	ctx, span := tracer.Start(ctx, "client:FetchMenu")
	defer span.End()
	span.SetAttributes(
		attribute.String("date", req.Date),
		attribute.String("restaurant", req.Restaurant.Name()),
		attribute.String("meal", req.Meal.Name()),
	)

	body, err := c.Fetch(ctx, req.URL(c.BaseUrl))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch menu")
		return model.RestaurantMenu{}, err
	}
	return parse.Menu(ctx, body, req), nil
}

// FetchDetails downloads and parses the recipe page of an item.
func (c *Client) FetchDetails(ctx context.Context, item model.Item) (model.ItemDetails, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDetails")
	defer span.End()

	req := request.ForItem(item)
	span.SetAttributes(attribute.String("item_id", req.ID))

	body, err := c.Fetch(ctx, req.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch item details")
		return model.ItemDetails{}, err
	}
	return parse.Details(ctx, body), nil
}
