package lucro

import (
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the explicit configuration every component is built from.
type options struct {
	dataDir         string
	catalogURL      string
	pricesURL       string
	locale          string
	timeout         time.Duration
	refreshInterval time.Duration
	priceCacheTTL   time.Duration
	checkStaleness  bool
	httpClient      *http.Client
	logger          *zerolog.Logger
	now             func() utc.Time
}

func defaults() *options {
	return &options{
		dataDir:         constants.DefaultDataDir,
		catalogURL:      constants.DefaultCatalogURL,
		pricesURL:       constants.DefaultPricesURL,
		locale:          constants.DefaultLocale,
		timeout:         constants.DefaultHTTPTimeout,
		refreshInterval: constants.DefaultRefreshInterval,
		priceCacheTTL:   constants.PriceCacheTTL,
		checkStaleness:  true,
		now:             utc.Now,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDataDir sets the directory holding the cached catalog.
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if strings.TrimSpace(dir) == "" {
			return errors.NewValidationError("data_dir", dir, "cannot be empty")
		}
		o.dataDir = dir
		return nil
	}
}

// WithCatalogURL sets the URL of the upstream item dump.
func WithCatalogURL(url string) Option {
	return func(o *options) error {
		if strings.TrimSpace(url) == "" {
			return errors.NewValidationError("catalog_url", url, "cannot be empty")
		}
		o.catalogURL = url
		return nil
	}
}

// WithPricesURL sets the base URL of the market data stats API.
func WithPricesURL(url string) Option {
	return func(o *options) error {
		if strings.TrimSpace(url) == "" {
			return errors.NewValidationError("prices_url", url, "cannot be empty")
		}
		o.pricesURL = url
		return nil
	}
}

// WithTimeout sets the timeout of every upstream request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("timeout", d, "must be positive")
		}
		o.timeout = d
		return nil
	}
}

// WithLocale sets the upstream locale code item names are matched in, e.g. "PT-BR".
func WithLocale(locale string) Option {
	return func(o *options) error {
		if strings.TrimSpace(locale) == "" {
			return errors.NewValidationError("locale", locale, "cannot be empty")
		}
		o.locale = locale
		return nil
	}
}

// WithRefreshInterval sets how old the cached catalog may get before it is refetched.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("refresh_interval", d, "must be positive")
		}
		o.refreshInterval = d
		return nil
	}
}

// WithPriceCacheTTL sets how long price responses are reused. Zero disables the cache.
func WithPriceCacheTTL(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewValidationError("price_cache_ttl", d, "cannot be negative")
		}
		o.priceCacheTTL = d
		return nil
	}
}

// WithStalenessCheck controls whether Search refreshes a stale catalog first.
// Disabled, the client only refreshes when Update is called.
func WithStalenessCheck(enabled bool) Option {
	return func(o *options) error {
		o.checkStaleness = enabled
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for upstream requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger. It is attached to contexts that carry none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithNow sets the clock used for staleness checks and refresh timestamps.
func WithNow(now func() utc.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("now", nil, "cannot be nil")
		}
		o.now = now
		return nil
	}
}
