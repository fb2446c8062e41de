package main

import (
	"fmt"
	"os"

	devenv "bruinmenu/dev/env"
	"bruinmenu/lib/menustore"
)

const (
	devDb           = devenv.StatePrefix + "/menus.db"
	devCache        = devenv.StatePrefix + "/cache"
	devDebugDir     = devenv.StatePrefix + "/resty"
	localConfigFile = "menu.local.json5"
)

func CreateMenuDb() error {
	path, err := devenv.ResolvePath(devDb)
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	db, err := menustore.OpenDB(path)
	if err != nil {
		return err
	}
	return db.Close()
}

// WriteLocalConfig points the cli at the dev state directory, an existing
// local config is left alone.
func WriteLocalConfig() error {
	_, err := os.Stat(localConfigFile)
	if err == nil {
		fmt.Println("local config already exists at", localConfigFile)
		return nil
	}

	contents := fmt.Sprintf(`{
	// written by "go run ./dev", paths starting with %s resolve to dev/.state
	db: %q,
	debug_dir: %q,
	cache: { dir: %q, ttl_minutes: 60 },
}
`, devenv.StatePrefix, devDb, devDebugDir, devCache)

	fmt.Println("writing local config to", localConfigFile)
	return os.WriteFile(localConfigFile, []byte(contents), 0600)
}
