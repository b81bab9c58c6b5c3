// Package cache provides a small in-memory TTL cache used to avoid repeated
// product API calls within a short window.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is used when the cache is created with a non-positive TTL.
const DefaultTTL = 300 * time.Second

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe key-value store where every entry expires after a TTL.
// Expired entries are removed lazily on Get or explicitly by CleanupExpired.
type Cache[V any] struct {
	mu         sync.Mutex
	data       map[string]entry[V]
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates an empty cache with the given default TTL.
func New[V any](defaultTTL time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	return &Cache[V]{
		data:       make(map[string]entry[V]),
		defaultTTL: defaultTTL,
		now:        o.now,
	}
}

// Key builds the cache key for a product variant in a region.
func Key(site, country, language, variantID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", site, country, language, variantID)
}

// Get returns the value stored under key. An expired entry is deleted and reported as missing.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	item, ok := c.data[key]
	if !ok {
		return zero, false
	}

	if !c.now().Before(item.expiresAt) {
		delete(c.data, key)
		return zero, false
	}

	return item.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key. A non-positive ttl falls back to the default.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.data[key]
	delete(c.data, key)

	return ok
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]entry[V])
}

// CleanupExpired removes every expired entry and returns how many were removed.
func (c *Cache[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.data {
		if !now.Before(item.expiresAt) {
			delete(c.data, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.data)
}
