package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type cacheConfig struct {
	Dir        string `json:"dir"`
	TTLMinutes int    `json:"ttl_minutes"`
}

type testConfig struct {
	BaseUrl     string      `json:"base_url"`
	Concurrency int         `json:"concurrency"`
	Cache       cacheConfig `json:"cache"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func chdir(t testing.TB, dir string) {
	previous, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(previous)
	})
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, path, `{
		// json5 allows comments and trailing commas
		base_url: "http://menu.dining.ucla.edu",
		concurrency: 4,
		cache: { dir: "cache", ttl_minutes: 30 },
	}`)
	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:     "http://menu.dining.ucla.edu",
		Concurrency: 4,
		Cache:       cacheConfig{Dir: "cache", TTLMinutes: 30},
	}, config)

	writeFile(t, filepath.Join(dir, "menu.local.json5"), `{ concurrency: 8, cache: { ttl_minutes: 5 } }`)
	config, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:     "http://menu.dining.ucla.edu",
		Concurrency: 8,
		Cache:       cacheConfig{Dir: "cache", TTLMinutes: 5},
	}, config)
}

func TestReadOrDefault(t *testing.T) {
	defaults := testConfig{
		BaseUrl:     "http://menu.dining.ucla.edu",
		Concurrency: 4,
		Cache:       cacheConfig{TTLMinutes: 60},
	}

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	chdir(t, nested)

	config, err := ReadOrDefault("bruinmenu_test_config.json5", defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, config)

	writeFile(t, filepath.Join(root, "bruinmenu_test_config.json5"), `{ base_url: "http://localhost:9000", cache: { dir: "pages" } }`)
	config, err = ReadOrDefault("bruinmenu_test_config.json5", defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:     "http://localhost:9000",
		Concurrency: 4,
		Cache:       cacheConfig{Dir: "pages", TTLMinutes: 60},
	}, config)
}
