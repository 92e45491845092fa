package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryBackend keeps host sessions in process memory. Useful for tests and
// single-process servers.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, hostID string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[hostID]
	return data, ok, nil
}

func (b *MemoryBackend) Save(_ context.Context, hostID string, data []byte, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[hostID] = append([]byte{}, data...)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, hostID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, hostID)
	return nil
}

var validHostID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileBackend stores each host session as a JSON file readable only by the
// owner.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend writing below dir.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: file backend directory is required", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(hostID string) (string, error) {
	if !validHostID.MatchString(hostID) {
		return "", fmt.Errorf("%w: invalid host id %q", ErrInvalidConfig, hostID)
	}
	return filepath.Join(b.dir, hostID+".json"), nil
}

func (b *FileBackend) Load(_ context.Context, hostID string) ([]byte, bool, error) {
	path, err := b.path(hostID)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *FileBackend) Save(_ context.Context, hostID string, data []byte, _ time.Duration) error {
	path, err := b.path(hostID)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (b *FileBackend) Delete(_ context.Context, hostID string) error {
	path, err := b.path(hostID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// DefaultRedisPrefix namespaces host sessions in Redis.
const DefaultRedisPrefix = "s1host:"

// RedisBackend stores host sessions in Redis so that several processes can
// share them. Entries expire together with the platform session.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a backend on client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisBackend(client redis.UniversalClient, prefix string) (*RedisBackend, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (b *RedisBackend) Load(ctx context.Context, hostID string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, b.prefix+hostID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *RedisBackend) Save(ctx context.Context, hostID string, data []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.prefix+hostID, data, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, hostID string) error {
	return b.client.Del(ctx, b.prefix+hostID).Err()
}

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*RedisBackend)(nil)
)
