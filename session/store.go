package session

import (
	"errors"
	"time"
)

// Sentinel errors for session stores.
var (
	ErrInvalidConfig   = errors.New("session: invalid configuration")
	ErrUnknownStore    = errors.New("session: unknown store type")
	ErrStoreRegistered = errors.New("session: store type already registered")
	ErrNotStarted      = errors.New("session: host store not started")
	ErrBackend         = errors.New("session: backend unavailable")
	ErrCorruptState    = errors.New("session: stored state is corrupt")
	ErrInvalidToken    = errors.New("session: invalid host session token")
)

// Store holds the credentials of at most one platform session together with
// a small key/value cache scoped to it.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Expiry: HasSession reports false once the absolute expiry has passed and
//     clears the stored session at that point.
//   - Accessors return zero values when no session is stored.
//   - The embedded cache is wiped whenever a session is set or cleared.
type Store interface {
	// HasSession reports whether a complete, unexpired session is stored.
	HasSession() bool

	// SetSession stores a new session expiring timeout from now.
	SetSession(id, key, userID string, timeout time.Duration)

	// SetTimeout moves the expiry to timeout from now.
	SetTimeout(timeout time.Duration)

	// ClearSession removes the session and its cache.
	ClearSession()

	ID() string
	Key() string
	UserID() string

	// Timeout returns the time left before the session expires.
	Timeout() time.Duration

	HasCacheKey(key string) bool
	CacheKey(key string) ([]byte, bool)
	SetCacheKey(key string, value []byte)
	UnsetCacheKey(key string)
}

// state is the serializable content of a store.
type state struct {
	ID        string            `json:"id,omitempty"`
	Key       string            `json:"key,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	ExpiresAt time.Time         `json:"expires_at,omitempty"`
	Cache     map[string][]byte `json:"cache,omitempty"`
}

func (s *state) complete() bool {
	return s.ID != "" && s.Key != "" && s.UserID != "" && !s.ExpiresAt.IsZero()
}

func (s *state) empty() bool {
	return !s.complete() && len(s.Cache) == 0
}
