package request

import (
	"github.com/jonwraymond/s1sdk/cache"
	"github.com/jonwraymond/s1sdk/session"
)

// Factory creates requests. Actors and sessions build every call through a
// Factory so tests and embedders can substitute their own.
type Factory interface {
	NewRequest(command, action string) Request
	NewSessionRequest(command, action string, store session.Store) (Request, error)
}

// DefaultFactory builds cached requests, adding session signing and expiry
// refresh for session requests.
type DefaultFactory struct {
	config  Config
	cache   cache.Cache
	options []CoreOption
}

// NewFactory creates a factory. A nil cache disables response caching.
func NewFactory(cfg Config, c cache.Cache, opts ...CoreOption) *DefaultFactory {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &DefaultFactory{config: cfg, cache: c, options: opts}
}

// Config returns the configuration requests are built with.
func (f *DefaultFactory) Config() Config { return f.config }

// Cache returns the response cache.
func (f *DefaultFactory) Cache() cache.Cache { return f.cache }

// NewRequest returns Cached(Core).
func (f *DefaultFactory) NewRequest(command, action string) Request {
	return NewCached(NewCore(command, action, f.config, f.options...), f.cache)
}

// NewSessionRequest returns SessionRefresh(Cached(Core)) signed with the
// session in store.
func (f *DefaultFactory) NewSessionRequest(command, action string, store session.Store) (Request, error) {
	auth, err := NewSessionAuth(f.config.Credentials, store)
	if err != nil {
		return nil, err
	}
	opts := append(append([]CoreOption(nil), f.options...), WithAuthenticator(auth))
	core := NewCore(command, action, f.config, opts...)
	return NewSessionRefresh(NewCached(core, f.cache), store), nil
}

var _ Factory = (*DefaultFactory)(nil)
