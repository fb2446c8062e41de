package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	devenv "bruinmenu/dev/env"
	"bruinmenu/lib/configutil"
	"bruinmenu/lib/menustore"
	"bruinmenu/lib/restyutil"
	"bruinmenu/lib/scrapers/dining"
	"bruinmenu/lib/scrapers/dining/request"
	"bruinmenu/lib/telemetry"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"
)

type CacheConfig struct {
	// Dir is where fetched pages are cached, caching is off when empty.
	Dir        string `json:"dir"`
	TTLMinutes int    `json:"ttl_minutes"`
}

type Config struct {
	BaseUrl          string      `json:"base_url"`
	Concurrency      int         `json:"concurrency"`
	TimeoutSeconds   int         `json:"timeout_seconds"`
	CloudflareBypass bool        `json:"cloudflare_bypass"`
	Cache            CacheConfig `json:"cache"`
	Db               string      `json:"db"`
	DebugDir         string      `json:"debug_dir"`
	ListenPort       int         `json:"listen_port"`

	// Telemetry falls back to a telemetry.json5 when it exports nothing.
	Telemetry telemetry.Config `json:"telemetry"`
}

var defaultConfig = Config{
	BaseUrl:        request.DefaultBaseUrl,
	Concurrency:    4,
	TimeoutSeconds: 30,
	Cache: CacheConfig{
		TTLMinutes: 60,
	},
	DebugDir:   devenv.StatePrefix + "/resty",
	ListenPort: 8080,
}

func LoadConfig(path string) (Config, error) {
	return configutil.ReadOrDefault(path, defaultConfig)
}

// newClient builds the dining client described by the config, the
// returned func releases the page cache.
func (c Config) newClient() (*dining.Client, func(), error) {
	opts := dining.ClientOptions{
		BaseUrl:  c.BaseUrl,
		Timeout:  time.Duration(c.TimeoutSeconds) * time.Second,
		CacheTTL: time.Duration(c.Cache.TTLMinutes) * time.Minute,
		Bypass:   c.CloudflareBypass,
	}

	if debug && c.DebugDir != "" {
		output, err := restyutil.NewFilesystemOutput(c.DebugDir)
		if err != nil {
			slog.Warn("http dumps disabled", "dir", c.DebugDir, "err", err)
		} else {
			slog.Debug("dumping http exchanges", "dir", output.Dir())
			opts.DebugOutput = output
		}
	}

	var cache *badger.DB
	if c.Cache.Dir != "" {
		dir, err := devenv.ResolvePath(c.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		cache, err = dining.OpenCache(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open page cache: %w", err)
		}
		opts.Cache = cache
	}
	release := func() {
		if cache == nil {
			return
		}
		err := cache.Close()
		if err != nil {
			slog.Warn("failed to close page cache", "err", err)
		}
	}

	client, err := dining.NewClient(opts)
	if err != nil {
		release()
		return nil, nil, err
	}
	return client, release, nil
}

func (c Config) openStore() (menustore.Store, func(), error) {
	if c.Db == "" {
		return menustore.Store{}, nil, fmt.Errorf("no database configured, set \"db\" in the config or pass --db")
	}
	db, err := menustore.OpenDB(c.Db)
	if err != nil {
		return menustore.Store{}, nil, fmt.Errorf("failed to open db: %w", err)
	}
	release := func() {
		err := db.Close()
		if err != nil {
			slog.Warn("failed to close db", "err", err)
		}
	}
	return menustore.NewStore(db), release, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the effective configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	},
}
