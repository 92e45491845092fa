package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/s1sdk/cache"
	"github.com/jonwraymond/s1sdk/observe"
	"github.com/jonwraymond/s1sdk/request"
	"github.com/jonwraymond/s1sdk/secret"
)

// Environment variables read by FromEnv.
const (
	EnvAPIURL            = "S1_API_URL"
	EnvAuthType          = "S1_AUTH_TYPE"
	EnvActorID           = "S1_ACTOR_ID"
	EnvActorKey          = "S1_ACTOR_KEY"
	EnvDefaultAccount    = "S1_DEFAULT_ACCOUNT"
	EnvRequestCache      = "S1_REQUEST_CACHE"
	EnvTokenCache        = "S1_TOKEN_CACHE"
	EnvCacheDir          = "S1_CACHE_DIR"
	EnvCacheTTL          = "S1_CACHE_TTL"
	EnvCacheSize         = "S1_CACHE_SIZE"
	EnvRedisAddr         = "S1_REDIS_ADDR"
	EnvRedisPassword     = "S1_REDIS_PASSWORD"
	EnvSessionTokenCache = "S1_SESSION_TOKEN_CACHE"
	EnvLogLevel          = "S1_LOG_LEVEL"
	EnvVisibleErrors     = "S1_VISIBLE_ERRORS"
	EnvSecretDir         = "S1_SECRET_DIR"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// LookupFunc returns the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvOption configures FromEnv.
type EnvOption func(*envLoader)

// WithLookup reads variables through fn instead of the process environment.
func WithLookup(fn LookupFunc) EnvOption {
	return func(l *envLoader) {
		if fn != nil {
			l.lookup = fn
		}
	}
}

// WithResolver resolves secret references through r instead of a default
// resolver with env and file providers.
func WithResolver(r *secret.Resolver) EnvOption {
	return func(l *envLoader) { l.resolver = r }
}

type envLoader struct {
	lookup   LookupFunc
	resolver *secret.Resolver
}

// FromEnv builds a Config from S1_* environment variables on top of
// DefaultConfig. Values holding secretref: references or ${VAR} expansions
// are resolved before use.
func FromEnv(ctx context.Context, opts ...EnvOption) (Config, error) {
	l := &envLoader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	if l.resolver == nil {
		l.resolver = secret.NewDefaultResolver(l.get(EnvSecretDir))
		defer func() { _ = l.resolver.Close() }()
	}

	cfg := DefaultConfig()

	vars := map[string]string{}
	for _, name := range []string{EnvAPIURL, EnvActorID, EnvActorKey, EnvDefaultAccount, EnvRedisAddr, EnvRedisPassword} {
		vars[name] = l.get(name)
	}
	if err := l.resolve(ctx, vars); err != nil {
		return Config{}, err
	}

	if v := vars[EnvAPIURL]; v != "" {
		cfg.APIURL = v
	}
	cfg.DefaultAccount = vars[EnvDefaultAccount]
	cfg.Credentials = request.Credentials{
		Type:     request.ParseAuthType(l.getOr(EnvAuthType, string(request.AuthUser))),
		ActorID:  vars[EnvActorID],
		ActorKey: vars[EnvActorKey],
	}

	if v := l.get(EnvVisibleErrors); v != "" {
		visible, err := parseStatuses(v)
		if err != nil {
			return Config{}, err
		}
		cfg.VisibleErrors = visible
	}

	if v := l.get(EnvSessionTokenCache); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", request.ErrInvalidConfig, EnvSessionTokenCache, err)
		}
		cfg.UseSessionForTokenCache = Bool(b)
	}

	if v := l.get(EnvLogLevel); v != "" {
		cfg.Logger = observe.NewLogger(v)
	}

	settings, err := l.cacheSettings(vars)
	if err != nil {
		return Config{}, err
	}
	if cfg.RequestCache, err = settings.build(l.get(EnvRequestCache), "requests"); err != nil {
		return Config{}, err
	}
	if cfg.TokenCache, err = settings.build(l.get(EnvTokenCache), "tokens"); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *envLoader) get(key string) string {
	v, _ := l.lookup(key)
	return strings.TrimSpace(v)
}

func (l *envLoader) getOr(key, def string) string {
	if v := l.get(key); v != "" {
		return v
	}
	return def
}

// resolve only touches values that reference a secret or a variable, so
// literal keys containing '$' pass through unchanged.
func (l *envLoader) resolve(ctx context.Context, vars map[string]string) error {
	fields := make(map[string]*string)
	for name, v := range vars {
		if strings.Contains(v, secret.RefPrefix) || strings.Contains(v, "${") {
			value := v
			fields[name] = &value
		}
	}
	if err := l.resolver.ResolveFields(ctx, fields); err != nil {
		return fmt.Errorf("%w: %v", request.ErrInvalidConfig, err)
	}
	for name, v := range fields {
		vars[name] = *v
	}
	return nil
}

type cacheSettings struct {
	dir      string
	ttl      time.Duration
	size     int
	addr     string
	password string
}

func (l *envLoader) cacheSettings(vars map[string]string) (cacheSettings, error) {
	s := cacheSettings{
		dir:      l.get(EnvCacheDir),
		ttl:      defaultCacheTTL,
		size:     defaultCacheSize,
		addr:     vars[EnvRedisAddr],
		password: vars[EnvRedisPassword],
	}
	if v := l.get(EnvCacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", request.ErrInvalidConfig, EnvCacheTTL, err)
		}
		s.ttl = ttl
	}
	if v := l.get(EnvCacheSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return s, fmt.Errorf("%w: %s must be a positive integer", request.ErrInvalidConfig, EnvCacheSize)
		}
		s.size = size
	}
	if s.dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		s.dir = filepath.Join(base, "s1sdk")
	}
	return s, nil
}

// build creates the cache registered under tag. name separates the file
// directories and Redis prefixes of the two caches.
func (s cacheSettings) build(tag, name string) (cache.Cache, error) {
	if tag == "" {
		return cache.NewNoopCache(), nil
	}
	c, err := cache.DefaultRegistry.Create(tag, map[string]any{
		"dir":      filepath.Join(s.dir, name),
		"ttl":      s.ttl,
		"size":     s.size,
		"addr":     s.addr,
		"password": s.password,
		"prefix":   "s1sdk:" + name + ":",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s cache: %v", request.ErrInvalidConfig, name, err)
	}
	return c, nil
}

// parseStatuses reads a comma separated status list. "none" disables
// error logging.
func parseStatuses(v string) ([]int, error) {
	if strings.EqualFold(v, "none") {
		return []int{}, nil
	}
	var out []int
	for _, field := range strings.Split(v, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a status", request.ErrInvalidConfig, EnvVisibleErrors, field)
		}
		out = append(out, n)
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}
