package cache

import (
	"sync"
	"time"

	"github.com/ryosukesatoh/calm-news/internal/metrics"
)

// Entry is a cached value and the time it was stored. The TTL is not part of
// the entry: each reader decides how old a value it is willing to accept.
type Entry struct {
	Data      any
	Timestamp time.Time
}

// Cache is an in-memory key/value store with lazy, reader-driven expiry.
// Entries live until a read finds them stale; there is no background sweep.
type Cache struct {
	mu    sync.Mutex
	items map[string]Entry
	now   func() time.Time
	name  string
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithName sets the label used in cache metrics.
func WithName(name string) Option {
	return func(c *Cache) { c.name = name }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		items: make(map[string]Entry),
		now:   time.Now,
		name:  "default",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key if it is at most ttl old.
// A stale entry is deleted and reported as absent.
func (c *Cache) Get(key string, ttl time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		metrics.RecordCacheLookup(c.name, "miss")
		return nil, false
	}

	if c.now().Sub(entry.Timestamp) > ttl {
		delete(c.items, key)
		metrics.RecordCacheLookup(c.name, "expired")
		return nil, false
	}

	metrics.RecordCacheLookup(c.name, "hit")
	return entry.Data, true
}

// Set stores value under key, stamped with the current time. Last write wins.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.items[key] = Entry{Data: value, Timestamp: c.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, stale or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]Entry)
	c.mu.Unlock()
}

// Get is a typed wrapper around (*Cache).Get. A value of another type is
// reported as absent.
func Get[T any](c *Cache, key string, ttl time.Duration) (T, bool) {
	var zero T
	v, ok := c.Get(key, ttl)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set is the typed counterpart of Get.
func Set[T any](c *Cache, key string, value T) {
	c.Set(key, value)
}
