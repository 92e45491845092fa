package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Backend persists host session state between processes or HTTP requests.
type Backend interface {
	// Load returns the stored data for hostID, or ok=false if none exists.
	Load(ctx context.Context, hostID string) (data []byte, ok bool, err error)

	// Save stores data for hostID. A positive ttl bounds its lifetime.
	Save(ctx context.Context, hostID string, data []byte, ttl time.Duration) error

	// Delete removes the data for hostID. Idempotent.
	Delete(ctx context.Context, hostID string) error
}

// HostStore is a Store whose state lives in a host session, such as a web
// session or a CLI profile, identified by a host id.
//
// The lifecycle is explicit: Start loads the state from the backend and Flush
// writes it back. Between the two calls the store behaves like a MemoryStore.
type HostStore struct {
	*MemoryStore

	backend Backend

	mu     sync.Mutex
	hostID string
}

// NewHostStore creates a host store persisting through backend.
func NewHostStore(backend Backend, opts ...MemoryOption) *HostStore {
	return &HostStore{
		MemoryStore: NewMemoryStore(opts...),
		backend:     backend,
	}
}

// Start loads the state for hostID. An empty hostID starts a new host
// session with a generated id.
func (s *HostStore) Start(ctx context.Context, hostID string) error {
	if hostID == "" {
		hostID = uuid.NewString()
	}

	data, ok, err := s.backend.Load(ctx, hostID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var st state
	if ok {
		if err := json.Unmarshal(data, &st); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
	}

	s.mu.Lock()
	s.hostID = hostID
	s.mu.Unlock()
	s.restore(st)
	return nil
}

// HostID returns the id of the started host session, or "" before Start.
func (s *HostStore) HostID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostID
}

// Flush writes changed state to the backend. Empty state is deleted.
func (s *HostStore) Flush(ctx context.Context) error {
	hostID := s.HostID()
	if hostID == "" {
		return ErrNotStarted
	}

	st, dirty := s.snapshot()
	if !dirty {
		return nil
	}

	if st.empty() {
		if err := s.backend.Delete(ctx, hostID); err != nil {
			return fmt.Errorf("%w: %v", ErrBackend, err)
		}
		s.markClean()
		return nil
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	var ttl time.Duration
	if st.complete() {
		ttl = time.Until(st.ExpiresAt)
		if ttl <= 0 {
			ttl = time.Second
		}
	}
	if err := s.backend.Save(ctx, hostID, data, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	s.markClean()
	return nil
}

// Resume starts the host session named by a signed token. A missing or
// invalid token starts a fresh host session. The returned token identifies
// the started host session and should be handed back to the client.
func (s *HostStore) Resume(ctx context.Context, codec *TokenCodec, token string) (string, error) {
	hostID := ""
	if token != "" {
		if id, err := codec.Parse(token); err == nil {
			hostID = id
		}
	}
	if err := s.Start(ctx, hostID); err != nil {
		return "", err
	}
	return codec.Issue(s.HostID())
}

var _ Store = (*HostStore)(nil)
