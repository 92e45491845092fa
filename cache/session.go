package cache

import (
	"context"
	"time"
)

// SessionStore is the part of a session store that the session cache needs.
type SessionStore interface {
	CacheKey(key string) ([]byte, bool)
	SetCacheKey(key string, value []byte)
}

// SessionCache keeps values inside the embedded cache of a session store, so
// they disappear when the session ends.
type SessionCache struct {
	store SessionStore
	clock clock
}

// NewSessionCache creates a cache scoped to store.
func NewSessionCache(store SessionStore) *SessionCache {
	return &SessionCache{store: store}
}

// NewSessionCacheWithClock is NewSessionCache with an explicit time source.
func NewSessionCacheWithClock(store SessionStore, now func() time.Time) *SessionCache {
	return &SessionCache{store: store, clock: now}
}

// Get retrieves a value from the session.
func (c *SessionCache) Get(_ context.Context, key string) ([]byte, bool) {
	env, ok := c.load(key)
	if !ok {
		return nil, false
	}
	return env.Value, true
}

// Age returns the time since key was stored in the session.
func (c *SessionCache) Age(_ context.Context, key string) (time.Duration, bool) {
	env, ok := c.load(key)
	if !ok {
		return 0, false
	}
	return c.clock.since(env.storedAt()), true
}

// Set stores value in the session.
func (c *SessionCache) Set(_ context.Context, key string, value []byte) {
	if ValidateKey(key) != nil {
		return
	}
	data, err := wrap(value, c.clock.now())
	if err != nil {
		return
	}
	c.store.SetCacheKey(key, data)
}

func (c *SessionCache) load(key string) (envelope, bool) {
	if ValidateKey(key) != nil {
		return envelope{}, false
	}
	data, ok := c.store.CacheKey(key)
	if !ok {
		return envelope{}, false
	}
	return unwrap(data)
}

var _ Cache = (*SessionCache)(nil)
