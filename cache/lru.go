package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize is the capacity used when none is configured.
const DefaultLRUSize = 1024

// LRUCache is a bounded in-memory cache that evicts the least recently used
// entry once full.
type LRUCache struct {
	entries *lru.Cache[string, cacheEntry]
	clock   clock
}

// NewLRUCache creates a cache holding at most size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &LRUCache{entries: entries}, nil
}

// Get retrieves a value and marks it as recently used.
func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	if ValidateKey(key) != nil {
		return nil, false
	}
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return cloneBytes(entry.value), true
}

// Age returns the time elapsed since key was stored.
func (c *LRUCache) Age(_ context.Context, key string) (time.Duration, bool) {
	if ValidateKey(key) != nil {
		return 0, false
	}
	entry, ok := c.entries.Peek(key)
	if !ok {
		return 0, false
	}
	return c.clock.since(entry.storedAt), true
}

// Set stores a copy of value, evicting the oldest entry when full.
func (c *LRUCache) Set(_ context.Context, key string, value []byte) {
	if ValidateKey(key) != nil {
		return
	}
	c.entries.Add(key, cacheEntry{value: cloneBytes(value), storedAt: c.clock.now()})
}

// Len returns the number of stored entries.
func (c *LRUCache) Len() int {
	return c.entries.Len()
}

var _ Cache = (*LRUCache)(nil)
