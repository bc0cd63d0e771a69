package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value    interface{}
	expireAt time.Time
}

func (e *memoryEntry) expired() bool {
	return time.Now().After(e.expireAt)
}

// MemoryCache implements Service in process memory with LRU eviction.
// Values set through Set are stored as JSON so Get behaves the same as
// the Redis backend for any destination type.
type MemoryCache struct {
	mutex   sync.RWMutex
	data    map[string]*memoryEntry
	access  map[string]time.Time
	maxSize int
	ticker  *time.Ticker
}

// Entries with no explicit expiration are kept for a week.
const defaultMemoryTTL = 7 * 24 * time.Hour

// NewMemoryCache creates an in-process cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		data:    make(map[string]*memoryEntry),
		access:  make(map[string]time.Time),
		maxSize: cfg.MaxSize,
		ticker:  time.NewTicker(cfg.CleanupInterval),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if len(mc.data) >= mc.maxSize {
		mc.evictOldest()
	}
	mc.put(key, raw, expiration)
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	entry, ok := mc.data[key]
	if !ok || entry.expired() {
		if ok {
			delete(mc.data, key)
			delete(mc.access, key)
		}
		return ErrCacheMiss
	}
	mc.access[key] = time.Now()

	raw, ok := entry.value.([]byte)
	if !ok {
		return fmt.Errorf("cache: value for %q is not decodable", key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
		delete(mc.access, key)
	}
	return nil
}

// DeleteByPattern drops everything. Pattern matching is a Redis feature;
// the in-process cache treats any pattern as a full flush.
func (mc *MemoryCache) DeleteByPattern(_ context.Context, _ string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.data = make(map[string]*memoryEntry)
	mc.access = make(map[string]time.Time)
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	for _, key := range keys {
		if entry, ok := mc.data[key]; ok && !entry.expired() {
			return true, nil
		}
	}
	return false, nil
}

func (mc *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	entry, ok := mc.data[key]
	if !ok || entry.expired() {
		mc.data[key] = &memoryEntry{value: int64(1), expireAt: time.Now().Add(defaultMemoryTTL)}
		mc.access[key] = time.Now()
		return 1, nil
	}

	val, ok := entry.value.(int64)
	if !ok {
		return 0, fmt.Errorf("cache: value for %q is not a counter", key)
	}
	entry.value = val + 1
	return val + 1, nil
}

func (mc *MemoryCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if entry, ok := mc.data[key]; ok {
		entry.expireAt = time.Now().Add(expiration)
		return true, nil
	}
	return false, nil
}

func (mc *MemoryCache) MSet(ctx context.Context, values map[string]interface{}, expiration time.Duration) error {
	for key, value := range values {
		if err := mc.Set(ctx, key, value, expiration); err != nil {
			return err
		}
	}
	return nil
}

func (mc *MemoryCache) MGet(_ context.Context, keys ...string) (map[string]string, error) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	results := make(map[string]string)
	for _, key := range keys {
		entry, ok := mc.data[key]
		if !ok || entry.expired() {
			continue
		}
		if raw, ok := entry.value.([]byte); ok {
			results[key] = string(raw)
		}
	}
	return results, nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if entry, ok := mc.data[key]; ok && !entry.expired() {
		return false, nil
	}
	mc.put(key, []byte(`"locked"`), ttl)
	return true, nil
}

func (mc *MemoryCache) Unlock(ctx context.Context, key string) error {
	return mc.Delete(ctx, key)
}

// put stores an entry. Caller must hold the write lock.
func (mc *MemoryCache) put(key string, value interface{}, expiration time.Duration) {
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}
	mc.data[key] = &memoryEntry{value: value, expireAt: time.Now().Add(expiration)}
	mc.access[key] = time.Now()
}

// evictOldest removes the least recently used entry. Caller must hold
// the write lock.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	oldestTime := time.Now()
	for key, accessTime := range mc.access {
		if accessTime.Before(oldestTime) {
			oldestTime = accessTime
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(mc.data, oldestKey)
		delete(mc.access, oldestKey)
	}
}

func (mc *MemoryCache) sweep() {
	for range mc.ticker.C {
		mc.mutex.Lock()
		for key, entry := range mc.data {
			if entry.expired() {
				delete(mc.data, key)
				delete(mc.access, key)
			}
		}
		mc.mutex.Unlock()
	}
}

// Close stops the background sweeper.
func (mc *MemoryCache) Close() error {
	if mc.ticker != nil {
		mc.ticker.Stop()
	}
	return nil
}
