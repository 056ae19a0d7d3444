// Package cache provides the process-wide TTL caches used on the quote path.
// Caches here are optimizations only: a miss costs one extra upstream call,
// never a correctness violation, so last-write-wins races are fine.
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Injectable so tests can drive expiry.
type Clock func() time.Time

type entry[V any] struct {
	expiresAt time.Time
	value     V
}

// TTL is a read-through map with per-entry expiry. Entries are evicted only
// by TTL; there is no explicit invalidation.
type TTL[V any] struct {
	ttl time.Duration
	now Clock

	mu    sync.RWMutex
	items map[string]entry[V]
}

// New creates a TTL cache. A nil clock uses time.Now.
func New[V any](ttl time.Duration, now Clock) *TTL[V] {
	if now == nil {
		now = time.Now
	}
	return &TTL[V]{
		ttl:   ttl,
		now:   now,
		items: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil || c.ttl <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *TTL[V]) Set(key string, value V) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = entry[V]{expiresAt: c.now().Add(c.ttl), value: value}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
