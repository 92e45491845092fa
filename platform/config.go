package platform

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/s1sdk/cache"
	"github.com/jonwraymond/s1sdk/observe"
	"github.com/jonwraymond/s1sdk/request"
	"github.com/jonwraymond/s1sdk/session"
	"github.com/jonwraymond/s1sdk/transport"
)

// DefaultAPIURL is used when no API URL is configured.
const DefaultAPIURL = "http://api.streamonecloud.net"

// Config holds everything a Platform is built from.
type Config struct {
	// APIURL is protocol://host/prefix of the API. Default: DefaultAPIURL.
	APIURL string

	Credentials    request.Credentials
	DefaultAccount string

	// VisibleErrors lists API statuses logged at error level. nil selects
	// request.DefaultVisibleErrors; an empty slice disables the logging.
	VisibleErrors []int

	// RequestCache holds cacheable responses. Default: no caching.
	RequestCache cache.Cache

	// TokenCache holds roles and tokens. Default: no caching.
	TokenCache cache.Cache

	// UseSessionForTokenCache stores roles and tokens of session actors in
	// the session store instead of TokenCache. nil means true; use
	// Bool(false) to keep session actors on TokenCache.
	UseSessionForTokenCache *bool

	// SessionStore is used by NewSession when no store is passed.
	// Default: a fresh session.MemoryStore.
	SessionStore session.Store

	// Sender performs the HTTP exchange. Default: transport.NewHTTP().
	Sender transport.Sender

	// Guard, when non-empty, wraps Sender in a transport.Guard.
	Guard []transport.GuardOption

	// Factory builds requests. Default: a request.DefaultFactory over the
	// settings above.
	Factory request.Factory

	// Logger defaults to the Observer's logger, else to a no-op logger.
	Logger observe.Logger

	// Observer, when set, instruments every call with traces and metrics.
	Observer observe.Observer
}

// DefaultConfig returns a Config with every default filled in except
// credentials.
func DefaultConfig() Config {
	return Config{
		APIURL:                  DefaultAPIURL,
		VisibleErrors:           append([]int(nil), request.DefaultVisibleErrors...),
		RequestCache:            cache.NewNoopCache(),
		TokenCache:              cache.NewNoopCache(),
		UseSessionForTokenCache: Bool(true),
		SessionStore:            session.NewMemoryStore(),
	}
}

// Validate reports configuration errors. They wrap request.ErrInvalidConfig.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("%w: api url is required", request.ErrInvalidConfig)
	}
	if strings.ContainsAny(c.APIURL, " \t\r\n") {
		return fmt.Errorf("%w: api url %q contains whitespace", request.ErrInvalidConfig, c.APIURL)
	}
	if c.Factory != nil {
		return nil
	}
	return c.Credentials.Validate()
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.VisibleErrors == nil {
		c.VisibleErrors = append([]int(nil), request.DefaultVisibleErrors...)
	}
	if c.RequestCache == nil {
		c.RequestCache = cache.NewNoopCache()
	}
	if c.TokenCache == nil {
		c.TokenCache = cache.NewNoopCache()
	}
	if c.UseSessionForTokenCache == nil {
		c.UseSessionForTokenCache = Bool(true)
	}
	if c.SessionStore == nil {
		c.SessionStore = session.NewMemoryStore()
	}
	if c.Sender == nil {
		c.Sender = transport.NewHTTP()
	}
	if c.Logger == nil {
		if c.Observer != nil {
			c.Logger = c.Observer.Logger()
		} else {
			c.Logger = observe.NopLogger()
		}
	}
}

// Bool returns a pointer to v, for optional Config fields.
func Bool(v bool) *bool { return &v }
