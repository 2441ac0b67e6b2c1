package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWith(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, constants.DefaultCatalogURL, cfg.CatalogURL)
	assert.Equal(t, constants.DefaultPricesURL, cfg.PricesURL)
	assert.Equal(t, "PT-BR", cfg.Locale)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 70, cfg.Threshold)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, constants.DefaultCities, cfg.Cities)
	assert.False(t, cfg.Offline)
	assert.Empty(t, cfg.ConfigFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("LUCRO_DATA_DIR", "/var/lib/lucro")
	t.Setenv("LUCRO_LOCALE", "en_us")
	t.Setenv("LUCRO_TIMEOUT", "3s")
	t.Setenv("LUCRO_THRESHOLD", "80")
	t.Setenv("LUCRO_CITIES", "Caerleon, Fort Sterling")
	t.Setenv("LUCRO_OFFLINE", "true")

	cfg, err := LoadWith(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/lucro", cfg.DataDir)
	assert.Equal(t, "EN-US", cfg.Locale)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 80, cfg.Threshold)
	assert.Equal(t, []string{"Caerleon", "Fort Sterling"}, cfg.Cities)
	assert.True(t, cfg.Offline)
}

func TestLoad_LegacyPricesURL(t *testing.T) {
	isolate(t)
	t.Setenv(LegacyPricesURLEnv, "https://east.albion-online-data.com/api/v2/stats")

	cfg, err := LoadWith(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://east.albion-online-data.com/api/v2/stats", cfg.PricesURL)

	t.Setenv("LUCRO_PRICES_URL", "https://europe.albion-online-data.com/api/v2/stats")
	cfg, err = LoadWith(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://europe.albion-online-data.com/api/v2/stats", cfg.PricesURL, "prefixed variable wins")
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := `data_dir: ./cache
locale: pt
refresh_interval: 12h
limit: 5
cities:
  - Martlock
  - Thetford
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lucro.yaml"), []byte(yaml), constants.FilePermissions))

	cfg, err := LoadWith(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "./cache", cfg.DataDir)
	assert.Equal(t, "PT-BR", cfg.Locale)
	assert.Equal(t, 12*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, []string{"Martlock", "Thetford"}, cfg.Cities)
	assert.Equal(t, ".lucro.yaml", filepath.Base(cfg.ConfigFile))

	t.Setenv("LUCRO_LIMIT", "7")
	cfg, err = LoadWith(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Limit, "environment beats the config file")
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)

	_, err := LoadWith(viper.New(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 55\n"), constants.FilePermissions))
	cfg, err := LoadWith(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 55, cfg.Threshold)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lucro.yaml"), []byte("limit: [unclosed\n"), constants.FilePermissions))

	_, err := LoadWith(viper.New(), "")
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoad_InvalidLocale(t *testing.T) {
	isolate(t)
	t.Setenv("LUCRO_LOCALE", "not a locale")

	_, err := LoadWith(viper.New(), "")
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadEnvFiles(t *testing.T) {
	dir := isolate(t)
	const key = "LUCRO_TEST_ENV_FILE_VALUE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=from-env\n"), constants.FilePermissions))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(key+"=from-local\n"), constants.FilePermissions))

	loadEnvFiles(".env", ".env.local")
	assert.Equal(t, "from-local", os.Getenv(key))
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"PT-BR", "PT-BR", false},
		{"pt-br", "PT-BR", false},
		{"pt_BR", "PT-BR", false},
		{"en-US", "EN-US", false},
		{"zh-TW", "ZH-TW", false},
		{"de", "DE-DE", false},
		{"", "", true},
		{"!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeLocale(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataDir:         "./data",
			CatalogURL:      constants.DefaultCatalogURL,
			PricesURL:       constants.DefaultPricesURL,
			Locale:          "PT-BR",
			Timeout:         time.Second,
			RefreshInterval: time.Hour,
			Threshold:       70,
			Limit:           10,
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"empty data dir":      func(c *Config) { c.DataDir = "" },
		"relative url":        func(c *Config) { c.CatalogURL = "items.json" },
		"ftp url":             func(c *Config) { c.PricesURL = "ftp://example.com/stats" },
		"zero timeout":        func(c *Config) { c.Timeout = 0 },
		"zero interval":       func(c *Config) { c.RefreshInterval = 0 },
		"negative cache ttl":  func(c *Config) { c.PriceCacheTTL = -time.Second },
		"threshold above 100": func(c *Config) { c.Threshold = 101 },
		"negative threshold":  func(c *Config) { c.Threshold = -1 },
		"zero limit":          func(c *Config) { c.Limit = 0 },
		"bad locale":          func(c *Config) { c.Locale = "??" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.True(t, errors.IsValidationError(c.Validate()))
		})
	}
}

func TestOptions(t *testing.T) {
	isolate(t)
	cfg, err := LoadWith(viper.New(), "")
	require.NoError(t, err)
	assert.Len(t, cfg.Options(), 8)
}
