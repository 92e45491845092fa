package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ReservedPrefix is the key namespace used by the SDK itself. Application
// code sharing a cache with the SDK must not write keys under it.
const ReservedPrefix = "s1:"

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 4096

// Sentinel errors for cache construction and key validation.
var (
	ErrInvalidKey      = errors.New("cache: key is invalid")
	ErrKeyTooLong      = errors.New("cache: key exceeds max length")
	ErrInvalidConfig   = errors.New("cache: invalid configuration")
	ErrUnknownCache    = errors.New("cache: unknown cache type")
	ErrCacheRegistered = errors.New("cache: type already registered")
)

// Cache is a best-effort key/value store for response bodies and derived data.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Misses: Get and Age report a miss with ok=false, which is distinct from
//     any stored value, including an empty one.
//   - Errors: no method returns an error; storage failures degrade to a miss
//     on read and to a no-op on write.
//   - Keys: a key rejected by ValidateKey is never stored and always reads
//     as a miss.
//   - Age: when Get(key) hits, Age(key) hits too and reports the time since
//     the value was stored.
type Cache interface {
	// Get retrieves a cached value. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Age reports how long ago the value for key was stored.
	Age(ctx context.Context, key string) (time.Duration, bool)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key string, value []byte)
}

// IsReserved reports whether key lives in the SDK namespace.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

// ValidateKey checks if a key is usable by every cache implementation.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// clock is the time source shared by cache implementations.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// since returns the non-negative elapsed time from t.
func (c clock) since(t time.Time) time.Duration {
	d := c.now().Sub(t)
	if d < 0 {
		return 0
	}
	return d
}
