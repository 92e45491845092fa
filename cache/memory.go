package cache

import (
	"context"
	"sync"
	"time"
)

// NoopCache never stores anything.
type NoopCache struct{}

// NewNoopCache creates a cache that always misses.
func NewNoopCache() NoopCache { return NoopCache{} }

// Get always misses.
func (NoopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Age always misses.
func (NoopCache) Age(context.Context, string) (time.Duration, bool) { return 0, false }

// Set discards the value.
func (NoopCache) Set(context.Context, string, []byte) {}

// MemoryCache keeps values for the lifetime of the instance.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	clock   clock
}

type cacheEntry struct {
	value    []byte
	storedAt time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMemoryClock overrides the time source used for ages.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.clock = now }
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{entries: make(map[string]cacheEntry)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from the cache. Returns (nil, false) on miss.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	if ValidateKey(key) != nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneBytes(entry.value), true
}

// Age returns the time elapsed since key was stored.
func (c *MemoryCache) Age(_ context.Context, key string) (time.Duration, bool) {
	if ValidateKey(key) != nil {
		return 0, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return c.clock.since(entry.storedAt), true
}

// Set stores a copy of value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	if ValidateKey(key) != nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: cloneBytes(value), storedAt: c.clock.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var (
	_ Cache = NoopCache{}
	_ Cache = (*MemoryCache)(nil)
)
