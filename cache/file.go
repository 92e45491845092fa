package cache

import (
	"context"
	"crypto/sha1" //nolint:gosec // file naming only
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores each value in its own file below a base directory.
//
// File names are the hex SHA-1 of the key. The file modification time is the
// storage time; entries older than the TTL are removed on the next read.
type FileCache struct {
	dir   string
	ttl   time.Duration
	clock clock
}

// FileOption configures a FileCache.
type FileOption func(*FileCache)

// WithFileClock overrides the time source used for expiry and ages.
func WithFileClock(now func() time.Time) FileOption {
	return func(c *FileCache) { c.clock = now }
}

// NewFileCache creates a file cache rooted at dir, creating it with owner-only
// permissions if needed.
func NewFileCache(dir string, ttl time.Duration, opts ...FileOption) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: file cache directory is required", ErrInvalidConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: file cache ttl must be positive", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c := &FileCache{dir: dir, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the base directory.
func (c *FileCache) Dir() string { return c.dir }

// Get reads the value for key. Expired or unreadable files are removed.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool) {
	path, ok := c.fresh(key)
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, false
	}
	return data, true
}

// Age returns the time since key was written.
func (c *FileCache) Age(_ context.Context, key string) (time.Duration, bool) {
	path, ok := c.fresh(key)
	if !ok {
		return 0, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return c.clock.since(info.ModTime()), true
}

// Set writes value atomically and stamps the file with the current time.
func (c *FileCache) Set(_ context.Context, key string, value []byte) {
	if ValidateKey(key) != nil {
		return
	}
	path := c.path(key)
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return
	}
	now := c.clock.now()
	_ = os.Chtimes(tmpName, now, now)
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
	}
}

// fresh returns the path for key if a non-expired file exists, removing
// expired entries on the way.
func (c *FileCache) fresh(key string) (string, bool) {
	if ValidateKey(key) != nil {
		return "", false
	}
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if info.ModTime().Add(c.ttl).Before(c.clock.now()) {
		_ = os.Remove(path)
		return "", false
	}
	return path, true
}

func (c *FileCache) path(key string) string {
	sum := sha1.Sum([]byte(key)) //nolint:gosec
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}

var _ Cache = (*FileCache)(nil)
