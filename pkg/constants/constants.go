// Package constants provides shared constants used throughout the lucro codebase.
// This includes timeouts, search defaults, file names, permissions and the
// upstream endpoints that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the catalog and price APIs
	DefaultHTTPTimeout = 10 * time.Second

	// RefreshTimeout bounds a whole refresh run (fetch, normalize and save)
	RefreshTimeout = 2 * time.Minute

	// ShutdownTimeout is how long the CLI waits for cleanup after an error
	ShutdownTimeout = 5 * time.Second
)

// Refresh policy constants
const (
	// DefaultRefreshInterval is how old the snapshot may get before it is refreshed
	DefaultRefreshInterval = 24 * time.Hour
)

// Search constants
const (
	// DefaultThreshold is the similarity a match must exceed to be returned
	DefaultThreshold = 70

	// DefaultLimit is the maximum number of matches returned by a search
	DefaultLimit = 10

	// DefaultPriceMatches is how many matches the prices command looks up
	DefaultPriceMatches = 5

	// MaxSimilarity is the score of two identical names
	MaxSimilarity = 100
)

// Upstream endpoints
const (
	// DefaultCatalogURL is the full item catalog published by the ao-data project
	DefaultCatalogURL = "https://raw.githubusercontent.com/ao-data/ao-bin-dumps/master/formatted/items.json"

	// DefaultPricesURL is the base URL of the Albion Online Data Project stats API
	DefaultPricesURL = "https://west.albion-online-data.com/api/v2/stats"

	// ImageURLTemplate renders an item icon, %s is the item id
	ImageURLTemplate = "https://render.albiononline.com/v1/item/%s.png"

	// DefaultLocale is the locale used for localized item names
	DefaultLocale = "PT-BR"

	// FallbackLocale is recorded alongside the matching locale
	FallbackLocale = "EN-US"

	// UserAgent is sent with every upstream request
	UserAgent = "lucro (+https://github.com/agentstation/lucro)"
)

// Price API constants
const (
	// PriceCacheTTL is how long a price response is reused
	PriceCacheTTL = 5 * time.Minute

	// PriceCacheCleanupInterval is how often expired price responses are dropped
	PriceCacheCleanupInterval = 10 * time.Minute

	// PriceRequestsPerMinute mirrors the public API's documented rate limit
	PriceRequestsPerMinute = 180

	// PriceBurst is the token bucket burst size for price requests
	PriceBurst = 10

	// MaxConcurrentPriceLookups bounds parallel price lookups for several items
	MaxConcurrentPriceLookups = 4

	// DefaultHistoryTimeScale is the history granularity in hours
	DefaultHistoryTimeScale = 24
)

// DefaultCities are the royal cities shown when none are selected.
var DefaultCities = []string{"Caerleon", "Bridgewatch", "Thetford", "Fort Sterling", "Martlock"}

// Storage constants
const (
	// DefaultDataDir holds the persisted snapshot
	DefaultDataDir = "./data"

	// ItemsFileName is the persisted item mapping
	ItemsFileName = "items.json"

	// CategoriesFileName is the persisted category index
	CategoriesFileName = "categories.json"

	// MarkerFileName holds the time of the last successful refresh
	MarkerFileName = "last_update.txt"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
