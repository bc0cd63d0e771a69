package cache

import (
	"sync"
	"time"
)

type item struct {
	value    any
	expireAt time.Time
}

// TTLCache is a small in-process cache with per-entry expiry. Expired
// entries are dropped lazily on read; there is no background sweeper, so
// it suits short TTLs with bounded key sets like evaluation results.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]item
}

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]item)}
}

// Get returns the cached value, or false when absent or expired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !it.expireAt.IsZero() && time.Now().After(it.expireAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

// Set stores value under key. A non-positive ttl means no expiry.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = item{value: value, expireAt: expireAt}
	c.mu.Unlock()
}
