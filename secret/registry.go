package secret

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ProviderFactory creates a Provider from configuration.
type ProviderFactory func(cfg map[string]any) (Provider, error)

// Registry manages provider factories.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ProviderFactory
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ProviderFactory)}
}

// Register adds a provider factory.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("%w: invalid provider registration", ErrInvalidRef)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %q", ErrProviderRegistered, name)
	}
	r.providers[name] = factory
	return nil
}

// Create instantiates a provider by name.
func (r *Registry) Create(name string, cfg map[string]any) (Provider, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	factory, ok := r.providers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return factory(cfg)
}

// List returns registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvConfig configures the "env" provider.
type EnvConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// FileConfig configures the "file" provider.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// DefaultRegistry holds the built-in providers.
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.Register("env", func(cfg map[string]any) (Provider, error) {
		var c EnvConfig
		if err := mapstructure.WeakDecode(cfg, &c); err != nil {
			return nil, fmt.Errorf("secret: env config: %w", err)
		}
		return NewEnvProvider(c.Prefix), nil
	})

	_ = DefaultRegistry.Register("file", func(cfg map[string]any) (Provider, error) {
		var c FileConfig
		if err := mapstructure.WeakDecode(cfg, &c); err != nil {
			return nil, fmt.Errorf("secret: file config: %w", err)
		}
		if c.Dir == "" {
			c.Dir = "."
		}
		return NewFileProvider(c.Dir), nil
	})
}
