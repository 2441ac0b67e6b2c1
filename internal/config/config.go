// Package config loads lucro settings from .env files, environment
// variables and an optional YAML config file.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/agentstation/lucro"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
)

// EnvPrefix prefixes every environment variable, e.g. LUCRO_DATA_DIR.
const EnvPrefix = "LUCRO"

// LegacyPricesURLEnv is the variable earlier releases read the stats API from.
const LegacyPricesURLEnv = "ALBION_API_URL"

// Config keys
const (
	KeyDataDir         = "data_dir"
	KeyCatalogURL      = "catalog_url"
	KeyPricesURL       = "prices_url"
	KeyLocale          = "locale"
	KeyTimeout         = "timeout"
	KeyRefreshInterval = "refresh_interval"
	KeyPriceCacheTTL   = "price_cache_ttl"
	KeyThreshold       = "threshold"
	KeyLimit           = "limit"
	KeyCities          = "cities"
	KeyOffline         = "offline"
)

// Config holds the settings every component is built from.
type Config struct {
	DataDir         string        `yaml:"data_dir" json:"data_dir"`
	CatalogURL      string        `yaml:"catalog_url" json:"catalog_url"`
	PricesURL       string        `yaml:"prices_url" json:"prices_url"`
	Locale          string        `yaml:"locale" json:"locale"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval"`
	PriceCacheTTL   time.Duration `yaml:"price_cache_ttl" json:"price_cache_ttl"`
	Threshold       int           `yaml:"threshold" json:"threshold"`
	Limit           int           `yaml:"limit" json:"limit"`
	Cities          []string      `yaml:"cities" json:"cities"`
	Offline         bool          `yaml:"offline" json:"offline"`

	// ConfigFile is the config file that was read, empty when none was found.
	ConfigFile string `yaml:"-" json:"config_file,omitempty"`
}

// Load reads the configuration in order of precedence:
// 1. Environment variables (LUCRO_*, and ALBION_API_URL for the prices URL)
// 2. .env and .env.local in the working directory
// 3. The config file: configFile when set, else .lucro.yaml in $HOME or "."
// 4. Defaults
//
// Command-line flags are applied on top by the caller.
func Load(configFile string) (*Config, error) {
	loadEnvFiles(".env", ".env.local")
	return LoadWith(viper.New(), configFile)
}

// LoadWith reads the configuration into v without touching .env files.
func LoadWith(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyPricesURL, EnvPrefix+"_PRICES_URL", LegacyPricesURLEnv); err != nil {
		return nil, errors.NewConfigError("env", "failed to bind prices url", err)
	}

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:         v.GetString(KeyDataDir),
		CatalogURL:      v.GetString(KeyCatalogURL),
		PricesURL:       v.GetString(KeyPricesURL),
		Locale:          v.GetString(KeyLocale),
		Timeout:         v.GetDuration(KeyTimeout),
		RefreshInterval: v.GetDuration(KeyRefreshInterval),
		PriceCacheTTL:   v.GetDuration(KeyPriceCacheTTL),
		Threshold:       v.GetInt(KeyThreshold),
		Limit:           v.GetInt(KeyLimit),
		Cities:          stringList(v.Get(KeyCities)),
		Offline:         v.GetBool(KeyOffline),
		ConfigFile:      v.ConfigFileUsed(),
	}

	locale, err := NormalizeLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	cfg.Locale = locale

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, constants.DefaultDataDir)
	v.SetDefault(KeyCatalogURL, constants.DefaultCatalogURL)
	v.SetDefault(KeyPricesURL, constants.DefaultPricesURL)
	v.SetDefault(KeyLocale, constants.DefaultLocale)
	v.SetDefault(KeyTimeout, constants.DefaultHTTPTimeout)
	v.SetDefault(KeyRefreshInterval, constants.DefaultRefreshInterval)
	v.SetDefault(KeyPriceCacheTTL, constants.PriceCacheTTL)
	v.SetDefault(KeyThreshold, constants.DefaultThreshold)
	v.SetDefault(KeyLimit, constants.DefaultLimit)
	v.SetDefault(KeyCities, constants.DefaultCities)
	v.SetDefault(KeyOffline, false)
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("config file", "failed to read "+configFile, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".lucro")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewConfigError("config file", "failed to parse .lucro.yaml", err)
	}
	return nil
}

// loadEnvFiles loads variables from .env files. Variables already set in
// the environment win, and .env.local overrides .env.
func loadEnvFiles(files ...string) {
	for i := len(files) - 1; i >= 0; i-- {
		_ = godotenv.Load(files[i])
	}
}

// stringList accepts a YAML list or a comma-separated string such as
// "Caerleon,Fort Sterling".
func stringList(value any) []string {
	var parts []string
	switch v := value.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeLocale validates a locale such as "pt-br", "pt_BR" or "pt" and
// renders it the way the item dump keys names: "PT-BR".
func NormalizeLocale(locale string) (string, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if raw == "" {
		return "", errors.NewValidationError(KeyLocale, locale, "cannot be empty")
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return "", errors.NewValidationError(KeyLocale, locale, "is not a valid language tag")
	}

	base, _ := tag.Base()
	region, confidence := tag.Region()
	if confidence == language.No {
		return "", errors.NewValidationError(KeyLocale, locale, "has no region")
	}
	return strings.ToUpper(base.String()) + "-" + strings.ToUpper(region.String()), nil
}

// Validate checks ranges and URLs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.NewValidationError(KeyDataDir, c.DataDir, "cannot be empty")
	}
	for key, value := range map[string]string{KeyCatalogURL: c.CatalogURL, KeyPricesURL: c.PricesURL} {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.NewValidationError(key, value, "must be an absolute http(s) URL")
		}
	}
	if _, err := NormalizeLocale(c.Locale); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.NewValidationError(KeyTimeout, c.Timeout, "must be positive")
	}
	if c.RefreshInterval <= 0 {
		return errors.NewValidationError(KeyRefreshInterval, c.RefreshInterval, "must be positive")
	}
	if c.PriceCacheTTL < 0 {
		return errors.NewValidationError(KeyPriceCacheTTL, c.PriceCacheTTL, "cannot be negative")
	}
	if c.Threshold < 0 || c.Threshold > constants.MaxSimilarity {
		return errors.NewValidationError(KeyThreshold, c.Threshold, "must be between 0 and 100")
	}
	if c.Limit <= 0 {
		return errors.NewValidationError(KeyLimit, c.Limit, "must be positive")
	}
	return nil
}

// Options converts the configuration into client options.
func (c *Config) Options() []lucro.Option {
	return []lucro.Option{
		lucro.WithDataDir(c.DataDir),
		lucro.WithCatalogURL(c.CatalogURL),
		lucro.WithPricesURL(c.PricesURL),
		lucro.WithLocale(c.Locale),
		lucro.WithTimeout(c.Timeout),
		lucro.WithRefreshInterval(c.RefreshInterval),
		lucro.WithPriceCacheTTL(c.PriceCacheTTL),
		lucro.WithStalenessCheck(!c.Offline),
	}
}
