package testutil

import (
	"fmt"
	"testing"

	devenv "bruinmenu/dev/env"
	"bruinmenu/lib/menustore"
	"bruinmenu/lib/telemetry"
)

type StoreParams struct {
	Name string
	// if unspecified, it will use `:memory:`
	DbPath string
}

// SetupStore opens a menu store for a test with telemetry set up, the
// database is closed when the test finishes.
func SetupStore(t testing.TB, params StoreParams) menustore.Store {
	telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}

	db, err := menustore.OpenDB(dbpath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return menustore.NewStore(db)
}
