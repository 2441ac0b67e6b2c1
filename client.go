// Package lucro caches the Albion Online item catalog locally, resolves
// typed item names to catalog ids and looks up their market prices.
//
// A Client owns the on-disk snapshot, refreshes it from the ao-data item
// dump when it is older than the refresh interval, and serves fuzzy
// searches from an in-memory copy.
//
// Example usage:
//
//	c, err := lucro.New(ctx, lucro.WithDataDir("./data"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matches, err := c.Search(ctx, "espada larga", resolver.WithLimit(5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range matches {
//	    rows, err := c.Prices(ctx, m.ID, []string{"Caerleon", "Martlock"})
//	    ...
//	}
package lucro

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/lucro/internal/prices"
	"github.com/agentstation/lucro/internal/refresh"
	"github.com/agentstation/lucro/internal/resolver"
	"github.com/agentstation/lucro/internal/sources/aodata"
	"github.com/agentstation/lucro/internal/store"
	"github.com/agentstation/lucro/internal/transport"
	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ Client   = (*client)(nil)
	_ Searcher = (*client)(nil)
	_ Updater  = (*client)(nil)
)

// Client is the catalog cache, name resolver and price lookup.
type Client interface {
	// Searcher resolves names against the cached catalog
	Searcher

	// Updater refreshes the cached catalog
	Updater

	// Pricer looks up market prices
	Pricer

	// Hooks provides access to refresh event callbacks
	Hooks

	// Snapshot returns a copy of the cached catalog
	Snapshot() *catalogs.Snapshot

	// Status describes the cached catalog
	Status() Status
}

// Searcher resolves names against the cached catalog.
type Searcher interface {
	// Search returns the best matches for query, refreshing a stale catalog first
	Search(ctx context.Context, query string, opts ...resolver.SearchOption) ([]catalogs.Match, error)

	// Lookup returns the item with the exact id
	Lookup(id string) (*catalogs.Item, bool)
}

// Updater refreshes the cached catalog.
type Updater interface {
	// Update refreshes the catalog when stale, or always when force is set
	Update(ctx context.Context, force bool) (bool, error)
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	store     *store.Store
	refresher *refresh.Refresher
	prices    *prices.Client
	hooks     *hooks

	// refreshMu serializes refreshes; mu guards the in-memory state
	refreshMu sync.Mutex
	mu        sync.RWMutex
	snapshot  *catalogs.Snapshot
	resolver  *resolver.Resolver
	report    store.LoadReport
	lastErr   error
}

// New wires the components and loads the cached catalog. When nothing is
// cached yet the full catalog is fetched first; if that fetch fails the
// client starts empty and the failure is reported by Status. Only wiring
// failures are returned, as *errors.CriticalStartupError.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, errors.NewCriticalStartupError("options", err)
	}

	c := &client{
		options:  o,
		hooks:    newHooks(),
		snapshot: catalogs.EmptySnapshot(),
		resolver: resolver.New(nil),
	}
	ctx = c.context(ctx)
	logger := logging.FromContext(ctx)

	c.store, err = store.New(o.dataDir, store.WithLogger(logger))
	if err != nil {
		return nil, errors.NewCriticalStartupError("store", err)
	}

	tr := transport.New(transport.WithHTTPClient(o.httpClient), transport.WithTimeout(o.timeout))
	source := aodata.NewClient(aodata.WithURL(o.catalogURL), aodata.WithTransport(tr))
	c.refresher = refresh.New(source, c.store,
		refresh.WithInterval(o.refreshInterval),
		refresh.WithLocale(o.locale),
	)
	c.prices = prices.NewClient(
		prices.WithBaseURL(o.pricesURL),
		prices.WithTransport(tr),
		prices.WithCacheTTL(o.priceCacheTTL),
	)

	if c.store.NeedsInitialLoad() {
		logger.Info().Str("dir", c.store.Dir()).Msg("No cached catalog, fetching the full item dump")
		if _, err := c.refresher.Refresh(ctx, o.now()); err != nil {
			c.lastErr = err
		}
	}
	c.reload(ctx)

	return c, nil
}

// context attaches the configured logger when ctx carries none.
func (c *client) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.options.logger != nil && !logging.HasLogger(ctx) {
		return logging.WithLogger(ctx, c.options.logger)
	}
	return ctx
}

// reload replaces the in-memory snapshot with the stored one and returns
// the previous items.
func (c *client) reload(ctx context.Context) *catalogs.Items {
	logger := logging.FromContext(ctx)
	snapshot, report := c.store.Load()
	logLoad(logger, report)

	if !snapshot.CategoriesConsistent() {
		logger.Warn().
			Int("items", snapshot.Items.Len()).
			Int("categories", len(snapshot.Categories)).
			Msg("Category index disagrees with items, re-deriving it")
		snapshot.Rederive()
	}

	r := resolver.New(snapshot.Items)

	c.mu.Lock()
	previous := c.snapshot.Items
	c.snapshot = snapshot
	c.resolver = r
	c.report = report
	c.mu.Unlock()

	return previous
}

func logLoad(logger *zerolog.Logger, report store.LoadReport) {
	event := logger.Debug()
	if report.Corrupt() {
		event = logger.Warn()
	}
	event.
		Stringer("items", report.Items.State).
		Stringer("categories", report.Categories.State).
		Msg("Loaded cached catalog")
}

// Update refreshes the catalog when it is stale, or unconditionally when
// force is set, and reports whether a refresh happened. On failure the
// cached catalog stays in use.
func (c *client) Update(ctx context.Context, force bool) (bool, error) {
	ctx = c.context(ctx)

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	now := c.options.now()
	var err error
	refreshed := false
	if force {
		_, err = c.refresher.Refresh(ctx, now)
		refreshed = err == nil
	} else {
		refreshed, err = c.refresher.RefreshIfNeeded(ctx, now)
	}

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	if err != nil || !refreshed {
		return false, err
	}

	previous := c.reload(ctx)
	c.mu.RLock()
	current := c.snapshot.Items
	c.mu.RUnlock()
	c.hooks.triggerRefresh(previous, current)

	return true, nil
}

// Search refreshes a stale catalog when the staleness check is enabled,
// then scores every cached name against query. A failed refresh is only
// returned when there is no cached catalog to search.
func (c *client) Search(ctx context.Context, query string, opts ...resolver.SearchOption) ([]catalogs.Match, error) {
	ctx = c.context(ctx)

	if c.options.checkStaleness {
		if _, err := c.Update(ctx, false); err != nil {
			c.mu.RLock()
			empty := c.snapshot.IsEmpty()
			c.mu.RUnlock()
			if empty {
				return nil, err
			}
			logging.FromContext(ctx).Warn().Err(err).Msg("Refresh failed, searching the cached catalog")
		}
	}

	c.mu.RLock()
	r := c.resolver
	c.mu.RUnlock()

	return r.Search(query, opts...), nil
}

// Lookup returns a copy of the cached item with the exact id.
func (c *client) Lookup(id string) (*catalogs.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolver.Lookup(id)
}

// Snapshot returns a deep copy of the cached catalog.
func (c *client) Snapshot() *catalogs.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &catalogs.Snapshot{
		Items:       c.snapshot.Items.Copy(),
		Categories:  c.snapshot.Categories.Copy(),
		RefreshedAt: c.snapshot.RefreshedAt,
	}
}
