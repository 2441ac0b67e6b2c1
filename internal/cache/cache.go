// Package cache keeps recent upstream price responses in memory so that
// repeated lookups of the same item within a few minutes skip the network.
package cache

import (
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache of values of type V.
type Cache[V any] struct {
	store  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache. defaultTTL is how long entries live; cleanupInterval
// is how often expired entries are purged.
func New[V any](defaultTTL, cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(V); ok {
			c.hits.Add(1)
			return typed, true
		}
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set stores value with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// SetWithTTL stores value with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, expired ones included until cleanup.
func (c *Cache[V]) ItemCount() int {
	return c.store.ItemCount()
}

// Stats are cache counters.
type Stats struct {
	ItemCount int   `json:"item_count" yaml:"item_count"`
	Hits      int64 `json:"hits" yaml:"hits"`
	Misses    int64 `json:"misses" yaml:"misses"`
}

// GetStats returns current cache statistics.
func (c *Cache[V]) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
	}
}
