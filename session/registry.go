package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
)

// Factory creates a store from configuration.
type Factory func(cfg map[string]any) (Store, error)

// Registry maps store type tags to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty store registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("%w: invalid store registration", ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrStoreRegistered, name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates the store registered under name.
func (r *Registry) Create(name string, cfg map[string]any) (Store, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, name)
	}
	return factory(cfg)
}

// List returns registered store type names.
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

// HostConfig configures the "host" store type.
type HostConfig struct {
	// Backend is one of memory, file or redis.
	Backend  string `mapstructure:"backend"`
	Dir      string `mapstructure:"dir"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// NewBackend builds the backend described by c.
func (c HostConfig) NewBackend() (Backend, error) {
	switch c.Backend {
	case "", "memory":
		return NewMemoryBackend(), nil
	case "file":
		return NewFileBackend(c.Dir)
	case "redis":
		if c.Addr == "" {
			return nil, fmt.Errorf("%w: redis addr is required", ErrInvalidConfig)
		}
		client := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
		return NewRedisBackend(client, c.Prefix)
	default:
		return nil, fmt.Errorf("%w: unknown host backend %q", ErrInvalidConfig, c.Backend)
	}
}

// DefaultRegistry holds the built-in store types.
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.Register("memory", func(map[string]any) (Store, error) {
		return NewMemoryStore(), nil
	})

	_ = DefaultRegistry.Register("host", func(cfg map[string]any) (Store, error) {
		var c HostConfig
		if err := mapstructure.WeakDecode(cfg, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		backend, err := c.NewBackend()
		if err != nil {
			return nil, err
		}
		return NewHostStore(backend), nil
	})
}
