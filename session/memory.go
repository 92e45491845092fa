package session

import (
	"sync"
	"time"
)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	st    state
	now   func() time.Time
	dirty bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasSession reports whether a complete, unexpired session is stored.
// An expired session is cleared.
func (s *MemoryStore) HasSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *MemoryStore) activeLocked() bool {
	if !s.st.complete() {
		return false
	}
	if s.now().After(s.st.ExpiresAt) {
		s.clearLocked()
		return false
	}
	return true
}

// SetSession stores a new session and resets the cache.
func (s *MemoryStore) SetSession(id, key, userID string, timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{
		ID:        id,
		Key:       key,
		UserID:    userID,
		ExpiresAt: s.now().Add(timeout),
	}
	s.dirty = true
}

// SetTimeout moves the expiry to timeout from now.
func (s *MemoryStore) SetTimeout(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.ExpiresAt = s.now().Add(timeout)
	s.dirty = true
}

// ClearSession removes the session and its cache.
func (s *MemoryStore) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *MemoryStore) clearLocked() {
	s.st = state{}
	s.dirty = true
}

// ID returns the session id, or "" without a session.
func (s *MemoryStore) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ""
	}
	return s.st.ID
}

// Key returns the session key, or "" without a session.
func (s *MemoryStore) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ""
	}
	return s.st.Key
}

// UserID returns the id of the user owning the session.
func (s *MemoryStore) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ""
	}
	return s.st.UserID
}

// Timeout returns the time left before the session expires.
func (s *MemoryStore) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return 0
	}
	return s.st.ExpiresAt.Sub(s.now())
}

// HasCacheKey reports whether key is present in the session cache.
func (s *MemoryStore) HasCacheKey(key string) bool {
	_, ok := s.CacheKey(key)
	return ok
}

// CacheKey returns the cached value for key.
func (s *MemoryStore) CacheKey(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.st.Cache[key]
	return v, ok
}

// SetCacheKey stores value under key in the session cache.
func (s *MemoryStore) SetCacheKey(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.Cache == nil {
		s.st.Cache = make(map[string][]byte)
	}
	s.st.Cache[key] = append([]byte{}, value...)
	s.dirty = true
}

// UnsetCacheKey removes key from the session cache.
func (s *MemoryStore) UnsetCacheKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.Cache[key]; ok {
		delete(s.st.Cache, key)
		s.dirty = true
	}
}

// snapshot returns a copy of the state and whether it changed since the last
// call to markClean.
func (s *MemoryStore) snapshot() (state, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeLocked()
	out := s.st
	if s.st.Cache != nil {
		out.Cache = make(map[string][]byte, len(s.st.Cache))
		for k, v := range s.st.Cache {
			out.Cache[k] = v
		}
	}
	return out, s.dirty
}

func (s *MemoryStore) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
	s.dirty = false
}

func (s *MemoryStore) markClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

var _ Store = (*MemoryStore)(nil)
