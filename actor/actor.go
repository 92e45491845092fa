package actor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/s1sdk/cache"
	"github.com/jonwraymond/s1sdk/login"
	"github.com/jonwraymond/s1sdk/observe"
	"github.com/jonwraymond/s1sdk/request"
)

// Sentinel errors for actors.
var (
	ErrNoFactory       = errors.New("actor: request factory is required")
	ErrSessionRequired = errors.New("actor: session is required")
	ErrDenied          = errors.New("actor: token denied")
)

// DeniedError is returned by Authorize when the actor lacks a token.
type DeniedError struct {
	Actor string
	Scope string
	Token string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("actor: %s lacks token %q in scope %s", e.Actor, e.Token, e.Scope)
}

// Unwrap returns ErrDenied.
func (e *DeniedError) Unwrap() error { return ErrDenied }

// Options configures an Actor.
type Options struct {
	// Credentials identify the configured user or application.
	Credentials request.Credentials

	// Factory builds requests when there is no session.
	Factory request.Factory

	// Session, when set, signs every request and keys cached roles by the
	// session user.
	Session *login.Session

	// TokenCache holds roles and tokens. Default: no caching.
	TokenCache cache.Cache

	// PreferSessionCache stores roles and tokens in the session store when a
	// session is set, ignoring TokenCache.
	PreferSessionCache bool

	// DefaultAccount seeds the scope.
	DefaultAccount string

	// Group collapses concurrent identical lookups. Actors sharing a group
	// share in-flight calls. Default: a private group.
	Group *singleflight.Group

	Logger observe.Logger
}

// Actor is the user or application on whose behalf calls are made.
//
// Contract:
//   - Concurrency: scope setters are not safe for concurrent use; lookups
//     may run concurrently once the scope is settled.
//   - Failed lookups return *request.APIError and nothing is cached.
type Actor struct {
	creds   request.Credentials
	factory request.Factory
	session *login.Session
	cache   cache.Cache
	group   *singleflight.Group
	logger  observe.Logger
	scope   request.Scope
}

// New creates an actor.
func New(opts Options) (*Actor, error) {
	if opts.Factory == nil {
		return nil, ErrNoFactory
	}
	a := &Actor{
		creds:   opts.Credentials,
		factory: opts.Factory,
		session: opts.Session,
		cache:   opts.TokenCache,
		group:   opts.Group,
		logger:  opts.Logger,
		scope:   request.AccountScope(opts.DefaultAccount),
	}
	if a.session != nil && opts.PreferSessionCache {
		a.cache = cache.NewSessionCache(a.session.Store())
	}
	if a.cache == nil {
		a.cache = cache.NewNoopCache()
	}
	if a.group == nil {
		a.group = &singleflight.Group{}
	}
	if a.logger == nil {
		a.logger = observe.NopLogger()
	}
	return a, nil
}

// Session returns the session the actor acts through, if any.
func (a *Actor) Session() *login.Session { return a.session }

// TokenCache returns the cache used for roles and tokens.
func (a *Actor) TokenCache() cache.Cache { return a.cache }

// SetAccount scopes the actor to one account. An empty id clears the scope.
func (a *Actor) SetAccount(id string) { a.scope = request.AccountScope(id) }

// SetAccounts scopes the actor to several accounts.
func (a *Actor) SetAccounts(ids []string) { a.scope = request.AccountScope(ids...) }

// SetCustomer scopes the actor to a customer. An empty id clears the scope.
func (a *Actor) SetCustomer(id string) { a.scope = request.CustomerScope(id) }

// Account returns the first account in scope.
func (a *Actor) Account() string { return a.scope.Account() }

// Accounts returns the accounts in scope.
func (a *Actor) Accounts() []string { return a.scope.Accounts() }

// Customer returns the customer in scope.
func (a *Actor) Customer() string { return a.scope.Customer() }

// Scope returns the current scope.
func (a *Actor) Scope() request.Scope { return a.scope }

// NewRequest creates a request carrying the actor's scope. An empty scope
// overrides any default account of the factory.
func (a *Actor) NewRequest(command, action string) (request.Request, error) {
	var req request.Request
	if a.session != nil {
		r, err := a.session.NewRequest(command, action)
		if err != nil {
			return nil, err
		}
		req = r
	} else {
		req = a.factory.NewRequest(command, action)
	}
	req.SetScope(a.scope)
	return req, nil
}

// actorType is "user" for sessions and user credentials, "application"
// otherwise.
func (a *Actor) actorType() string {
	if a.session != nil || a.creds.Type == request.AuthUser {
		return string(request.AuthUser)
	}
	return string(request.AuthApplication)
}

// actorID is the session user when acting through a session.
func (a *Actor) actorID() string {
	if a.session != nil {
		if id, err := a.session.UserID(); err == nil {
			return id
		}
	}
	return a.creds.ActorID
}

func (a *Actor) rolesKey() string {
	return cache.RolesKey(a.actorType(), a.actorID())
}

func (a *Actor) tokensKey() string {
	return cache.TokensKey(string(a.creds.Type), a.actorID(), a.scope.Customer(), a.scope.Accounts())
}

// Roles returns the role assignments of the actor.
func (a *Actor) Roles(ctx context.Context) ([]Role, error) {
	body, err := a.load(ctx, a.rolesKey(), a.actorType(), "getmyroles")
	if err != nil {
		return nil, err
	}
	var roles []Role
	if err := json.Unmarshal(body, &roles); err != nil {
		return nil, fmt.Errorf("actor: decode roles: %w", err)
	}
	return roles, nil
}

// Tokens returns the tokens the actor holds in the current scope, as
// computed by the platform.
func (a *Actor) Tokens(ctx context.Context) ([]string, error) {
	body, err := a.load(ctx, a.tokensKey(), "api", "mytokens")
	if err != nil {
		return nil, err
	}
	var tokens []string
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("actor: decode tokens: %w", err)
	}
	return tokens, nil
}

// HasToken reports whether the actor holds token in the current scope.
//
// Without accounts, any role covering the customer (or any global role when
// there is no customer) must hold the token. With accounts, every account
// needs a role covering it that holds the token. When accounts are in scope
// and the actor has customer roles, roles alone cannot tell which accounts
// belong to that customer, so the platform's token list decides.
func (a *Actor) HasToken(ctx context.Context, token string) (bool, error) {
	roles, err := a.Roles(ctx)
	if err != nil {
		return false, err
	}

	accounts := a.scope.Accounts()
	if len(accounts) > 0 && slices.ContainsFunc(roles, func(r Role) bool { return r.Customer != nil }) {
		tokens, err := a.Tokens(ctx)
		if err != nil {
			return false, err
		}
		return slices.Contains(tokens, token), nil
	}

	if len(accounts) == 0 {
		customer := a.scope.Customer()
		return slices.ContainsFunc(roles, func(r Role) bool {
			return r.Grants(token, customer, "")
		}), nil
	}

	for _, account := range accounts {
		if !slices.ContainsFunc(roles, func(r Role) bool { return r.Grants(token, "", account) }) {
			return false, nil
		}
	}
	return true, nil
}

// Authorize returns nil when the actor holds token and a *DeniedError when
// it does not.
func (a *Actor) Authorize(ctx context.Context, token string) error {
	ok, err := a.HasToken(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return &DeniedError{
			Actor: a.actorType() + ":" + a.actorID(),
			Scope: a.scope.Key(),
			Token: token,
		}
	}
	return nil
}

// load returns the body of command/action, served from the cache when
// possible. Successful bodies are cached; failures are not.
func (a *Actor) load(ctx context.Context, key, command, action string) ([]byte, error) {
	if body, ok := a.cache.Get(ctx, key); ok {
		a.logger.Debug(ctx, "actor cache hit", observe.F("cache_key", key))
		return body, nil
	}

	v, err, shared := a.group.Do(key, func() (any, error) {
		req, err := a.NewRequest(command, action)
		if err != nil {
			return nil, err
		}
		resp := req.Execute(ctx)
		if err := request.ErrorFromResponse(resp); err != nil {
			return nil, err
		}
		body := []byte(resp.Body())
		a.cache.Set(ctx, key, body)
		return body, nil
	})
	if err != nil {
		a.logger.Warn(ctx, "actor lookup failed",
			observe.F("command", command),
			observe.F("action", action),
			observe.F("error", err.Error()),
		)
		return nil, err
	}
	if shared {
		a.logger.Debug(ctx, "actor lookup shared", observe.F("cache_key", key))
	}
	return v.([]byte), nil
}
