package cache

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", ErrInvalidKey},
		{"valid key", "s1:request:/api/item/view?", nil},
		{"too long", strings.Repeat("x", MaxKeyLength+1), ErrKeyTooLong},
		{"contains newline", "key\nwith\nnewlines", ErrInvalidKey},
		{"contains carriage return", "key\rwith\rreturns", ErrInvalidKey},
		{"whitespace only", "   ", ErrInvalidKey},
		{"max length exactly", strings.Repeat("x", MaxKeyLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateKey(tt.key); err != tt.wantErr {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	if !IsReserved("s1:roles:user:42") {
		t.Error("s1: keys should be reserved")
	}
	if IsReserved("app:s1:thing") {
		t.Error("only the prefix should be reserved")
	}
}

// fakeSessionStore is an in-memory stand-in for the session store cache.
type fakeSessionStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{values: make(map[string][]byte)}
}

func (s *fakeSessionStore) CacheKey(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeSessionStore) SetCacheKey(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *fakeSessionStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string][]byte)
}

// storingCaches returns every cache variant that actually stores values.
func storingCaches(t *testing.T) map[string]Cache {
	t.Helper()

	fileCache, err := NewFileCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	lruCache, err := NewLRUCache(16)
	if err != nil {
		t.Fatalf("NewLRUCache() error = %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redisCache, err := NewRedisCache(client, WithRedisPrefix("test:"))
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}

	return map[string]Cache{
		"memory":  NewMemoryCache(),
		"lru":     lruCache,
		"file":    fileCache,
		"redis":   redisCache,
		"session": NewSessionCache(newFakeSessionStore()),
	}
}

func TestCacheContract_SetGetAge(t *testing.T) {
	ctx := context.Background()

	for name, c := range storingCaches(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := c.Get(ctx, "missing"); ok {
				t.Error("Get on empty cache should miss")
			}
			if _, ok := c.Age(ctx, "missing"); ok {
				t.Error("Age on empty cache should miss")
			}

			before := time.Now()
			c.Set(ctx, "k", []byte("v1"))

			got, ok := c.Get(ctx, "k")
			if !ok || !bytes.Equal(got, []byte("v1")) {
				t.Fatalf("Get() = %q, %v; want v1, true", got, ok)
			}

			age, ok := c.Age(ctx, "k")
			if !ok {
				t.Fatal("Age() should hit when Get hits")
			}
			if age < 0 || age > time.Since(before)+time.Second {
				t.Errorf("Age() = %v, out of range", age)
			}

			c.Set(ctx, "k", []byte("v2"))
			got, _ = c.Get(ctx, "k")
			if !bytes.Equal(got, []byte("v2")) {
				t.Errorf("Get() after overwrite = %q, want v2", got)
			}
		})
	}
}

func TestCacheContract_EmptyValueIsNotMiss(t *testing.T) {
	ctx := context.Background()

	for name, c := range storingCaches(t) {
		t.Run(name, func(t *testing.T) {
			c.Set(ctx, "empty", []byte{})
			got, ok := c.Get(ctx, "empty")
			if !ok {
				t.Fatal("stored empty value should be a hit")
			}
			if len(got) != 0 {
				t.Errorf("Get() = %q, want empty", got)
			}
		})
	}
}

func TestCacheContract_InvalidKeysAreNotStored(t *testing.T) {
	ctx := context.Background()
	keys := map[string]string{
		"empty":    "",
		"blank":    "   ",
		"newline":  "a\nb",
		"too long": strings.Repeat("x", MaxKeyLength+1),
	}

	for name, c := range storingCaches(t) {
		t.Run(name, func(t *testing.T) {
			for label, key := range keys {
				c.Set(ctx, key, []byte("v"))
				if _, ok := c.Get(ctx, key); ok {
					t.Errorf("%s key: Get() should miss", label)
				}
				if _, ok := c.Age(ctx, key); ok {
					t.Errorf("%s key: Age() should miss", label)
				}
			}
		})
	}
}

func TestRedisCache_InvalidKeyNotWritten(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c, err := NewRedisCache(client, WithRedisPrefix("test:"))
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	ctx := context.Background()

	c.Set(ctx, strings.Repeat("x", MaxKeyLength+1), []byte("v"))
	c.Set(ctx, "", []byte("v"))

	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("redis keys = %v, want none", keys)
	}
}

func TestSessionCache_InvalidKeyNotWritten(t *testing.T) {
	store := newFakeSessionStore()
	c := NewSessionCache(store)

	c.Set(context.Background(), "bad\rkey", []byte("v"))

	if len(store.values) != 0 {
		t.Errorf("session values = %d, want 0", len(store.values))
	}
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopCache()

	c.Set(ctx, "k", []byte("v"))
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("noop cache should always miss")
	}
	if _, ok := c.Age(ctx, "k"); ok {
		t.Error("noop cache age should always miss")
	}
}

func TestSessionCache_ClearedWithSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	c := NewSessionCache(store)

	c.Set(ctx, "s1:roles:user:1", []byte("[]"))
	store.clear()

	if _, ok := c.Get(ctx, "s1:roles:user:1"); ok {
		t.Error("entry should vanish with the session")
	}
}

func TestSessionCache_AgeFromClock(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	c := NewSessionCacheWithClock(newFakeSessionStore(), func() time.Time { return now })

	c.Set(ctx, "k", []byte("v"))
	now = now.Add(90 * time.Second)

	age, ok := c.Age(ctx, "k")
	if !ok || age != 90*time.Second {
		t.Errorf("Age() = %v, %v; want 90s, true", age, ok)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(ctx, "shared", []byte{byte(i)})
			_, _ = c.Get(ctx, "shared")
			_, _ = c.Age(ctx, "shared")
		}(i)
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	value := []byte("abc")
	c.Set(ctx, "k", value)
	value[0] = 'x'

	got, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
}

func TestLRUCache_Evicts(t *testing.T) {
	c, err := NewLRUCache(2)
	if err != nil {
		t.Fatalf("NewLRUCache() error = %v", err)
	}
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"))

	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("recently used entry should survive")
	}
}

func TestRedisCache_UnavailableIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c, err := NewRedisCache(client)
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	mr.Close()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("unreachable redis should behave as a miss")
	}
	c.Set(ctx, "k", []byte("v"))
}

func TestRedisCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c, err := NewRedisCache(client, WithRedisTTL(time.Minute))
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry should expire after ttl")
	}
}

func TestNewRedisCache_NilClient(t *testing.T) {
	if _, err := NewRedisCache(nil); err == nil {
		t.Error("NewRedisCache(nil) should error")
	}
}
