// Package prices queries the Albion Online Data Project stats API for
// current prices and price history.
package prices

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/agentstation/lucro/internal/cache"
	"github.com/agentstation/lucro/internal/transport"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// Sources tag fetch errors raised by this package.
const (
	SourcePrices  = "prices"
	SourceHistory = "history"
)

// Client talks to the stats API. It is safe for concurrent use.
type Client struct {
	baseURL     string
	transport   *transport.Client
	limiter     *rate.Limiter
	concurrency int
	prices      *cache.Cache[[]Price]
	history     *cache.Cache[[]History]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the stats API base URL, e.g. https://west.albion-online-data.com/api/v2/stats.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTransport sets the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithRateLimit sets the request rate. A non-positive perMinute disables limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
	}
}

// WithCacheTTL sets how long responses are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.prices, c.history = nil, nil
			return
		}
		c.prices = cache.New[[]Price](ttl, constants.PriceCacheCleanupInterval)
		c.history = cache.New[[]History](ttl, constants.PriceCacheCleanupInterval)
	}
}

// WithConcurrency bounds the parallel requests of LookupMany.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a stats API client with the public endpoint defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     constants.DefaultPricesURL,
		transport:   transport.New(),
		concurrency: constants.MaxConcurrentPriceLookups,
	}
	WithRateLimit(constants.PriceRequestsPerMinute, constants.PriceBurst)(c)
	WithCacheTTL(constants.PriceCacheTTL)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the stats API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPrices returns the current prices of id in cities. Nil or empty cities
// means the royal cities.
func (c *Client) GetPrices(ctx context.Context, id string, cities []string) ([]Price, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	cities = normalizeCities(cities)

	key := cache.Key(SourcePrices, id, strings.Join(cities, ","))
	if c.prices != nil {
		if rows, ok := c.prices.Get(key); ok {
			return rows, nil
		}
	}

	query := url.Values{}
	query.Set("locations", strings.Join(cities, ","))
	endpoint := c.endpoint("prices", id, query)

	var rows []Price
	if err := c.get(ctx, SourcePrices, endpoint, &rows); err != nil {
		return nil, err
	}

	if c.prices != nil {
		c.prices.Set(key, rows)
	}
	return rows, nil
}

// GetHistory returns the price history of id, bucketed by timeScale hours.
// Nil or empty cities means every city upstream reports.
func (c *Client) GetHistory(ctx context.Context, id string, timeScale int, cities []string) ([]History, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if timeScale <= 0 {
		timeScale = constants.DefaultHistoryTimeScale
	}
	cities = trimCities(cities)

	query := url.Values{}
	query.Set("time-scale", strconv.Itoa(timeScale))
	if len(cities) > 0 {
		query.Set("locations", strings.Join(cities, ","))
	}

	key := cache.Key(SourceHistory, id, strconv.Itoa(timeScale), strings.Join(cities, ","))
	if c.history != nil {
		if rows, ok := c.history.Get(key); ok {
			return rows, nil
		}
	}

	var rows []History
	if err := c.get(ctx, SourceHistory, c.endpoint("history", id, query), &rows); err != nil {
		return nil, err
	}

	if c.history != nil {
		c.history.Set(key, rows)
	}
	return rows, nil
}

// LookupMany fetches current prices for several items in parallel. One
// failing item does not affect the others; results keep the order of ids.
func (c *Client) LookupMany(ctx context.Context, ids []string, cities []string) []Result {
	results := make([]Result, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			rows, err := c.GetPrices(logging.WithItem(gCtx, id), id, cities)
			results[i] = Result{ItemID: id, Prices: rows, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// CacheStats returns the counters of the current-prices cache.
func (c *Client) CacheStats() cache.Stats {
	if c.prices == nil {
		return cache.Stats{}
	}
	return c.prices.GetStats()
}

func (c *Client) get(ctx context.Context, source, endpoint string, target any) error {
	logger := logging.FromContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.WrapFetch(source, endpoint, transport.IsTimeout(err) || ctx.Err() != nil, err)
	}

	logger.Debug().Str("url", endpoint).Msg("Requesting market data")
	if err := c.transport.GetJSON(ctx, source, endpoint, target); err != nil {
		logger.Warn().Err(err).Str("url", endpoint).Msg("Market data request failed")
		return err
	}
	return nil
}

func (c *Client) endpoint(kind, id string, query url.Values) string {
	return c.baseURL + "/" + kind + "/" + url.PathEscape(id) + "?" + query.Encode()
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError("item_id", id, "cannot be empty")
	}
	return nil
}

func normalizeCities(cities []string) []string {
	cities = trimCities(cities)
	if len(cities) == 0 {
		return append([]string(nil), constants.DefaultCities...)
	}
	return cities
}

func trimCities(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, city := range cities {
		if city = strings.TrimSpace(city); city != "" {
			out = append(out, city)
		}
	}
	return out
}
