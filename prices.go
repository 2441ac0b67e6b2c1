package lucro

import (
	"context"

	"github.com/agentstation/lucro/internal/cache"
	"github.com/agentstation/lucro/internal/prices"
	"github.com/agentstation/lucro/internal/resolver"
	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/constants"
)

// Compile-time interface check to ensure proper implementation.
var _ Pricer = (*client)(nil)

// Pricer looks up market prices for resolved items.
type Pricer interface {
	// Prices returns the current prices of an item id in cities
	Prices(ctx context.Context, id string, cities []string) ([]prices.Price, error)

	// History returns the price history of an item id
	History(ctx context.Context, id string, timeScale int, cities []string) ([]prices.History, error)

	// SearchPrices resolves query and looks up prices for the best matches
	SearchPrices(ctx context.Context, query string, cities []string, opts ...resolver.SearchOption) ([]ItemPrices, error)

	// PriceCacheStats returns the price cache counters
	PriceCacheStats() cache.Stats
}

// ItemPrices pairs a match with its prices. Err is set when the lookup for
// this item failed; the other items are unaffected.
type ItemPrices struct {
	Match  catalogs.Match `json:"match" yaml:"match"`
	Prices []prices.Price `json:"prices" yaml:"prices"`
	Err    error          `json:"-" yaml:"-"`
}

// Prices returns the current prices of id. Nil cities means the royal cities.
func (c *client) Prices(ctx context.Context, id string, cities []string) ([]prices.Price, error) {
	return c.prices.GetPrices(c.context(ctx), id, cities)
}

// History returns the price history of id bucketed by timeScale hours.
func (c *client) History(ctx context.Context, id string, timeScale int, cities []string) ([]prices.History, error) {
	return c.prices.GetHistory(c.context(ctx), id, timeScale, cities)
}

// SearchPrices resolves query and fetches prices for the top matches in
// parallel. Without a limit option at most five matches are priced.
func (c *client) SearchPrices(ctx context.Context, query string, cities []string, opts ...resolver.SearchOption) ([]ItemPrices, error) {
	ctx = c.context(ctx)

	opts = append([]resolver.SearchOption{resolver.WithLimit(constants.DefaultPriceMatches)}, opts...)
	matches, err := c.Search(ctx, query, opts...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}

	results := c.prices.LookupMany(ctx, ids, cities)
	out := make([]ItemPrices, len(matches))
	for i, m := range matches {
		out[i] = ItemPrices{Match: m, Prices: results[i].Prices, Err: results[i].Err}
	}
	return out, nil
}

// PriceCacheStats returns the price cache counters.
func (c *client) PriceCacheStats() cache.Stats {
	return c.prices.CacheStats()
}
