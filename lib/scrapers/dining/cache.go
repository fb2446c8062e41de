package dining

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"net/url"
	"time"

	"bruinmenu/lib/timezone"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrPageNotFound = badger.ErrKeyNotFound

// OpenCache opens the badger database backing the page cache, an empty
// dir keeps the cache in memory.
func OpenCache(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

type cachedPage struct {
	Contents  []byte
	ExpiresAt int64
}

// PageCache stores fetched pages keyed by their normalized url.
type PageCache struct {
	db      *badger.DB
	baseUrl *url.URL
	ttl     time.Duration
}

func NewPageCache(db *badger.DB, baseUrl string, ttl time.Duration) (PageCache, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return PageCache{}, err
	}
	return PageCache{db: db, baseUrl: parsed, ttl: ttl}, nil
}

func (c PageCache) key(link string) (string, error) {
	full, err := c.baseUrl.Parse(link)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return "page:" + normalized, nil
}

func (c PageCache) Get(ctx context.Context, link string) ([]byte, error) {
	_, span := tracer.Start(ctx, "cache:Get")
	defer span.End()

	key, err := c.key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return nil, err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	var serialized []byte
	err = c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		serialized, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return nil, err
	}

	var cached cachedPage
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached page")
		return nil, err
	}

	if timezone.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key", trace.WithAttributes(
			attribute.String("key", key),
		))
		err = c.db.Update(func(tx *badger.Txn) error {
			return tx.Delete([]byte(key))
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return nil, ErrPageNotFound
	}

	span.AddEvent("cache hit", trace.WithAttributes(
		attribute.Int("contentlength", len(cached.Contents)),
	))
	return cached.Contents, nil
}

func (c PageCache) Set(ctx context.Context, link string, contents []byte) error {
	_, span := tracer.Start(ctx, "cache:Set")
	defer span.End()

	key, err := c.key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(cachedPage{
		Contents:  contents,
		ExpiresAt: timezone.Now().Add(c.ttl).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page")
		return err
	}

	err = c.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), serialized.Bytes())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}
	return nil
}
