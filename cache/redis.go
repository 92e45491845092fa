package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL is the expiry applied to Redis entries when none is set.
const DefaultRedisTTL = time.Hour

// RedisCache is the network-backed cache. Values are shared across processes
// and expire after a fixed TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	clock  clock
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithRedisPrefix namespaces every key written by the cache.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// WithRedisTTL sets the expiry of stored entries.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisClock overrides the time source used for ages.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(c *RedisCache) { c.clock = now }
}

// NewRedisCache creates a cache backed by client.
func NewRedisCache(client redis.UniversalClient, opts ...RedisOption) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}
	c := &RedisCache{client: client, ttl: DefaultRedisTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Client exposes the underlying client for health checks.
func (c *RedisCache) Client() redis.UniversalClient { return c.client }

// Get retrieves a value. Connection failures are reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	env, ok := c.load(ctx, key)
	if !ok {
		return nil, false
	}
	return env.Value, true
}

// Age returns the time since key was stored.
func (c *RedisCache) Age(ctx context.Context, key string) (time.Duration, bool) {
	env, ok := c.load(ctx, key)
	if !ok {
		return 0, false
	}
	return c.clock.since(env.storedAt()), true
}

// Set stores value with the configured TTL. Failures are ignored.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if ValidateKey(key) != nil {
		return
	}
	data, err := wrap(value, c.clock.now())
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

func (c *RedisCache) load(ctx context.Context, key string) (envelope, bool) {
	if ValidateKey(key) != nil {
		return envelope{}, false
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return envelope{}, false
	}
	return unwrap(data)
}

var _ Cache = (*RedisCache)(nil)
