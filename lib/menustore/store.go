package menustore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	devenv "bruinmenu/dev/env"
	"bruinmenu/lib/scrapers/dining/model"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var tracer = otel.Tracer("bruinmenu.lib.menustore")

var ErrNotFound = errors.New("menustore: not found")

var remoteSchemes = []string{"libsql://", "http://", "https://", "ws://", "wss://"}

// OpenDB opens the menu database and makes sure the schema exists.
// Remote libsql urls go through the libsql driver, anything else is
// treated as a local sqlite file resolved against the workspace, with
// ":memory:" kept in memory.
func OpenDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}

	var db *sql.DB
	var err error
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(path, scheme) {
			db, err = sql.Open("libsql", path)
			break
		}
	}
	if db == nil && err == nil {
		db, err = openSqlite(path)
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

func openSqlite(path string) (*sql.DB, error) {
	if path == ":memory:" {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}

	dbpath, err := devenv.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(dbpath)
	if os.IsNotExist(statErr) {
		f, err := os.Create(dbpath)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Push stores every menu, replacing whatever was stored for its date.
// Items are upserted, details already known for an item are kept when
// the new copy has none.
func (s Store) Push(ctx context.Context, fetchedAt time.Time, menus ...model.DateMenu) error {
	ctx, span := tracer.Start(ctx, "store:Push")
	defer span.End()
	span.SetAttributes(attribute.Int("menus", len(menus)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	for _, menu := range menus {
		err = pushMenu(ctx, tx, fetchedAt, menu)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to push menu")
			return fmt.Errorf("push %s: %w", menu.Date, err)
		}
	}
	return tx.Commit()
}

func pushMenu(ctx context.Context, tx *sql.Tx, fetchedAt time.Time, menu model.DateMenu) error {
	verbose, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	compact, err := model.MarshalCompact(menu)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		`insert into date_menu(date, verbose, compact, fetched_at) values (?, ?, ?, ?)
		on conflict (date) do update set
			verbose = excluded.verbose,
			compact = excluded.compact,
			fetched_at = excluded.fetched_at`,
		menu.Date, string(verbose), string(compact), fetchedAt.Unix(),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "delete from menu_item_served where date = ?", menu.Date)
	if err != nil {
		return err
	}

	for _, restaurant := range menu.Restaurants {
		for _, meal := range restaurant.Meals {
			for _, section := range meal.Sections {
				for _, item := range section.Items {
					err = pushItem(ctx, tx, item)
					if err != nil {
						return err
					}
					_, err = tx.ExecContext(
						ctx,
						`insert into menu_item_served(date, restaurant, meal, section, item_id)
						values (?, ?, ?, ?, ?)
						on conflict do nothing`,
						menu.Date,
						restaurant.Restaurant.Name(),
						meal.Meal.Name(),
						section.Name,
						item.ID,
					)
					if err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func pushItem(ctx context.Context, tx *sql.Tx, item model.Item) error {
	var description, ingredients, allergens *string
	if item.Details != nil {
		description = item.Details.Description
		ingredients = item.Details.Ingredients
		allergens = item.Details.Allergens
	}
	_, err := tx.ExecContext(
		ctx,
		`insert into menu_item(id, name, recipe_link, description, ingredients, allergens)
		values (?, ?, ?, ?, ?, ?)
		on conflict (id) do update set
			name = excluded.name,
			recipe_link = excluded.recipe_link,
			description = coalesce(excluded.description, menu_item.description),
			ingredients = coalesce(excluded.ingredients, menu_item.ingredients),
			allergens = coalesce(excluded.allergens, menu_item.allergens)`,
		item.ID, item.Name, item.RecipeLink, description, ingredients, allergens,
	)
	return err
}

func (s Store) pullColumn(ctx context.Context, column, date string) (string, error) {
	var out string
	err := s.db.QueryRowContext(
		ctx,
		fmt.Sprintf("select %s from date_menu where date = ?", column),
		date,
	).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return out, err
}

// Pull returns the menu stored for a date.
func (s Store) Pull(ctx context.Context, date string) (model.DateMenu, error) {
	ctx, span := tracer.Start(ctx, "store:Pull")
	defer span.End()
	span.SetAttributes(attribute.String("date", date))

	verbose, err := s.pullColumn(ctx, "verbose", date)
	if err != nil {
		return model.DateMenu{}, err
	}

	var menu model.DateMenu
	err = json.Unmarshal([]byte(verbose), &menu)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal stored menu")
		return model.DateMenu{}, err
	}
	return menu, nil
}

// PullCompact returns the compact document stored for a date as is.
func (s Store) PullCompact(ctx context.Context, date string) (string, error) {
	ctx, span := tracer.Start(ctx, "store:PullCompact")
	defer span.End()
	span.SetAttributes(attribute.String("date", date))

	return s.pullColumn(ctx, "compact", date)
}

type StoredDate struct {
	Date      string
	FetchedAt time.Time
}

// Dates lists every stored date in ascending order.
func (s Store) Dates(ctx context.Context) ([]StoredDate, error) {
	ctx, span := tracer.Start(ctx, "store:Dates")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, "select date, fetched_at from date_menu order by date")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query dates")
		return nil, err
	}
	defer rows.Close()

	dates := []StoredDate{}
	for rows.Next() {
		var date string
		var fetchedAt int64
		err = rows.Scan(&date, &fetchedAt)
		if err != nil {
			return nil, err
		}
		dates = append(dates, StoredDate{Date: date, FetchedAt: time.Unix(fetchedAt, 0)})
	}
	return dates, rows.Err()
}

type Serving struct {
	Date       string `json:"date"`
	Restaurant string `json:"restaurant"`
	Meal       string `json:"meal"`
	Section    string `json:"section"`
}

type StoredItem struct {
	model.Item
	Servings []Serving `json:"servings"`
}

// Item returns an item along with every stored meal it was served in.
func (s Store) Item(ctx context.Context, id string) (StoredItem, error) {
	ctx, span := tracer.Start(ctx, "store:Item")
	defer span.End()
	span.SetAttributes(attribute.String("item_id", id))

	var item StoredItem
	var details model.ItemDetails
	err := s.db.QueryRowContext(
		ctx,
		"select id, name, recipe_link, description, ingredients, allergens from menu_item where id = ?",
		id,
	).Scan(
		&item.ID,
		&item.Name,
		&item.RecipeLink,
		&details.Description,
		&details.Ingredients,
		&details.Allergens,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredItem{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query item")
		return StoredItem{}, err
	}
	if details != (model.ItemDetails{}) {
		item.SetDetails(details)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`select date, restaurant, meal, section from menu_item_served
		where item_id = ?
		order by date, restaurant, meal, section`,
		id,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query servings")
		return StoredItem{}, err
	}
	defer rows.Close()

	item.Servings = []Serving{}
	for rows.Next() {
		var serving Serving
		err = rows.Scan(&serving.Date, &serving.Restaurant, &serving.Meal, &serving.Section)
		if err != nil {
			return StoredItem{}, err
		}
		item.Servings = append(item.Servings, serving)
	}
	return item, rows.Err()
}
