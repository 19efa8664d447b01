// Package cache provides small TTL-bounded in-memory caches. Entries are
// never evicted on size, only judged stale by age; stale entries are kept
// so callers can fall back to them when the authoritative source is
// unreachable.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	created time.Time
}

// TTLCache is a concurrency-safe map of keyed values with a single TTL.
// No memory ceiling is enforced; callers are expected to Purge
// periodically or rely on process restarts.
type TTLCache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]
	now     func() time.Time
}

// New creates a cache with the given TTL.
func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the value for key if present and fresh.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.created) > c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetStale returns the value for key regardless of age. The second result
// reports presence, the third freshness. Stale values are only meant as a
// last-resort fallback.
func (c *TTLCache[V]) GetStale(key string) (value V, ok, fresh bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found {
		var zero V
		return zero, false, false
	}
	return e.value, true, c.now().Sub(e.created) <= c.ttl
}

// Set stores value under key, resetting its age.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, created: c.now()}
}

// Evict removes key from the cache.
func (c *TTLCache[V]) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge removes all stale entries and returns how many were dropped.
func (c *TTLCache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for k, e := range c.entries {
		if c.now().Sub(e.created) > c.ttl {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, fresh or stale.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
