package lucro

import (
	"github.com/agentstation/utc"
)

// Status describes the cached catalog.
type Status struct {
	DataDir         string         `json:"data_dir" yaml:"data_dir"`
	Locale          string         `json:"locale" yaml:"locale"`
	CatalogURL      string         `json:"catalog_url" yaml:"catalog_url"`
	PricesURL       string         `json:"prices_url" yaml:"prices_url"`
	Items           int            `json:"items" yaml:"items"`
	Categorized     int            `json:"categorized" yaml:"categorized"`
	Categories      map[string]int `json:"categories" yaml:"categories"`
	ItemsFile       string         `json:"items_file" yaml:"items_file"`
	CategoriesFile  string         `json:"categories_file" yaml:"categories_file"`
	Refreshed       bool           `json:"refreshed" yaml:"refreshed"`
	LastRefresh     *utc.Time      `json:"last_refresh,omitempty" yaml:"last_refresh,omitempty"`
	NextRefresh     *utc.Time      `json:"next_refresh,omitempty" yaml:"next_refresh,omitempty"`
	Stale           bool           `json:"stale" yaml:"stale"`
	RefreshInterval string         `json:"refresh_interval" yaml:"refresh_interval"`
	LastError       string         `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

// Status reports what is cached, how each file loaded and when the
// catalog is next due for a refresh.
func (c *client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.options.now()
	s := Status{
		DataDir:         c.store.Dir(),
		Locale:          c.options.locale,
		CatalogURL:      c.options.catalogURL,
		PricesURL:       c.options.pricesURL,
		Items:           c.snapshot.Items.Len(),
		Categorized:     len(c.snapshot.Categories),
		Categories:      c.snapshot.Categories.Categories(),
		ItemsFile:       c.report.Items.State.String(),
		CategoriesFile:  c.report.Categories.State.String(),
		Stale:           c.store.IsStale(now, c.options.refreshInterval),
		RefreshInterval: c.options.refreshInterval.String(),
	}

	if last, ok := c.store.LastRefresh(); ok {
		next := utc.New(last.Time.Add(c.options.refreshInterval))
		s.Refreshed = true
		s.LastRefresh = &last
		s.NextRefresh = &next
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}
