package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
)

// Factory creates a cache from configuration.
type Factory func(cfg map[string]any) (Cache, error)

// Registry maps cache type tags to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty cache registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("%w: invalid cache registration", ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrCacheRegistered, name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates the cache registered under name.
func (r *Registry) Create(name string, cfg map[string]any) (Cache, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCache, name)
	}
	return factory(cfg)
}

// List returns registered cache type names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileConfig configures the "file" cache type.
type FileConfig struct {
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

// RedisConfig configures the "redis" cache type.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LRUConfig configures the "lru" cache type.
type LRUConfig struct {
	Size int `mapstructure:"size"`
}

// DecodeConfig decodes a loosely typed configuration map into out.
// Durations may be given as strings such as "5m".
func DecodeConfig(cfg map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultRegistry holds the built-in cache types.
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.Register("noop", func(map[string]any) (Cache, error) {
		return NewNoopCache(), nil
	})

	_ = DefaultRegistry.Register("memory", func(map[string]any) (Cache, error) {
		return NewMemoryCache(), nil
	})

	_ = DefaultRegistry.Register("lru", func(cfg map[string]any) (Cache, error) {
		var c LRUConfig
		if err := DecodeConfig(cfg, &c); err != nil {
			return nil, err
		}
		return NewLRUCache(c.Size)
	})

	_ = DefaultRegistry.Register("file", func(cfg map[string]any) (Cache, error) {
		var c FileConfig
		if err := DecodeConfig(cfg, &c); err != nil {
			return nil, err
		}
		return NewFileCache(c.Dir, c.TTL)
	})

	_ = DefaultRegistry.Register("redis", func(cfg map[string]any) (Cache, error) {
		var c RedisConfig
		if err := DecodeConfig(cfg, &c); err != nil {
			return nil, err
		}
		if c.Addr == "" {
			return nil, fmt.Errorf("%w: redis addr is required", ErrInvalidConfig)
		}
		client := redis.NewClient(&redis.Options{
			Addr:     c.Addr,
			Password: c.Password,
			DB:       c.DB,
		})
		return NewRedisCache(client, WithRedisPrefix(c.Prefix), WithRedisTTL(c.TTL))
	})
}
