package platform

import (
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/s1sdk/actor"
	"github.com/jonwraymond/s1sdk/cache"
	"github.com/jonwraymond/s1sdk/health"
	"github.com/jonwraymond/s1sdk/login"
	"github.com/jonwraymond/s1sdk/observe"
	"github.com/jonwraymond/s1sdk/request"
	"github.com/jonwraymond/s1sdk/session"
	"github.com/jonwraymond/s1sdk/transport"
)

// SessionExpiryWarning is the remaining session lifetime below which the
// session health check reports degraded.
const SessionExpiryWarning = 5 * time.Minute

// Platform hands out requests, sessions and actors sharing one transport
// stack and one set of caches.
//
// Contract:
//   - Concurrency: safe for concurrent use. The values it returns follow
//     their own contracts.
//   - Ownership: caches, sender and store passed in Config stay owned by
//     the caller.
type Platform struct {
	cfg     Config
	reqCfg  request.Config
	factory request.Factory
	guard   *transport.Guard
	group   singleflight.Group
}

// New validates cfg, fills in defaults and assembles the transport stack:
// Sender, then Guard, then the Observer middleware outermost.
func New(cfg Config) (*Platform, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{}
	sender := cfg.Sender
	if len(cfg.Guard) > 0 {
		p.guard = transport.NewGuard(sender, cfg.Guard...)
		sender = p.guard
	}
	if cfg.Observer != nil {
		mw, err := observe.MiddlewareFromObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", request.ErrInvalidConfig, err)
		}
		sender = mw.WrapSender(sender)
	}
	cfg.Sender = sender

	p.reqCfg = request.Config{
		APIURL:         cfg.APIURL,
		Credentials:    cfg.Credentials,
		DefaultAccount: cfg.DefaultAccount,
		Sender:         sender,
		VisibleErrors:  cfg.VisibleErrors,
		Logger:         cfg.Logger,
	}
	p.factory = cfg.Factory
	if p.factory == nil {
		p.factory = request.NewFactory(p.reqCfg, cfg.RequestCache)
	}
	p.cfg = cfg
	return p, nil
}

// Config returns the effective configuration, with Sender set to the
// assembled transport stack.
func (p *Platform) Config() Config { return p.cfg }

// Factory returns the request factory.
func (p *Platform) Factory() request.Factory { return p.factory }

// Guard returns the transport guard, or nil when none is configured.
func (p *Platform) Guard() *transport.Guard { return p.guard }

// NewRequest creates a request signed with the configured credentials.
func (p *Platform) NewRequest(command, action string) request.Request {
	return p.factory.NewRequest(command, action)
}

// NewSession creates a login session kept in store. A nil store selects the
// configured SessionStore.
func (p *Platform) NewSession(store session.Store) *login.Session {
	if store == nil {
		store = p.cfg.SessionStore
	}
	return login.New(p.factory, store, login.WithLogger(p.cfg.Logger))
}

// NewActor creates an actor for the configured credentials. With a session
// the actor acts as the logged-in user.
func (p *Platform) NewActor(sess *login.Session) (*actor.Actor, error) {
	return actor.New(p.actorOptions(sess))
}

// NewPersistentActor creates an actor whose scope is kept in the session
// store.
func (p *Platform) NewPersistentActor(sess *login.Session) (*actor.Persistent, error) {
	return actor.NewPersistent(p.actorOptions(sess))
}

func (p *Platform) actorOptions(sess *login.Session) actor.Options {
	return actor.Options{
		Credentials:        p.cfg.Credentials,
		Factory:            p.factory,
		Session:            sess,
		TokenCache:         p.cfg.TokenCache,
		PreferSessionCache: *p.cfg.UseSessionForTokenCache,
		DefaultAccount:     p.cfg.DefaultAccount,
		Group:              &p.group,
		Logger:             p.cfg.Logger,
	}
}

// HealthCheckers returns checks for the pieces this platform depends on:
// the API itself, the circuit breaker, file and Redis caches, and the
// configured session store.
func (p *Platform) HealthCheckers() []health.Checker {
	checkers := []health.Checker{
		health.NewAPIChecker("api", func() (request.Request, error) {
			return request.NewCore("api", "mytokens", p.reqCfg), nil
		}),
	}
	if p.guard != nil && p.guard.Breaker() != nil {
		checkers = append(checkers, health.NewCircuitChecker("circuit", p.guard.Breaker()))
	}
	checkers = append(checkers, cacheCheckers("request_cache", p.cfg.RequestCache)...)
	checkers = append(checkers, cacheCheckers("token_cache", p.cfg.TokenCache)...)
	checkers = append(checkers, health.NewSessionChecker("session", p.cfg.SessionStore, SessionExpiryWarning))
	return checkers
}

func cacheCheckers(name string, c cache.Cache) []health.Checker {
	switch c := c.(type) {
	case *cache.FileCache:
		return []health.Checker{health.NewDirChecker(name, c.Dir())}
	case *cache.RedisCache:
		return []health.Checker{health.NewRedisChecker(name, c.Client())}
	default:
		return nil
	}
}
