package request

import (
	"context"
	"time"

	"github.com/jonwraymond/s1sdk/cache"
)

// Cached serves responses from a cache when possible and stores cacheable
// responses of the wrapped request.
type Cached struct {
	Request

	cache     cache.Cache
	resp      *Response
	fromCache bool
	age       time.Duration
}

// NewCached wraps inner. A nil cache disables caching.
func NewCached(inner Request, c cache.Cache) *Cached {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &Cached{Request: inner, cache: c}
}

// Execute replays a cached reply on a hit. On a miss it executes the wrapped
// request and stores the reply if it is cacheable.
func (c *Cached) Execute(ctx context.Context) *Response {
	c.resp = nil
	c.fromCache = false
	c.age = 0

	key := c.Request.CacheKey()
	if plain, ok := c.cache.Get(ctx, key); ok {
		c.resp = ParseResponse(plain)
		c.fromCache = true
		if age, ok := c.cache.Age(ctx, key); ok {
			c.age = age
		}
		return c.resp
	}

	c.resp = c.Request.Execute(ctx)
	if c.resp.Cacheable() {
		c.cache.Set(ctx, key, c.resp.PlainResponse())
	}
	return c.resp
}

// Response returns the last response.
func (c *Cached) Response() *Response {
	if c.resp != nil {
		return c.resp
	}
	return c.Request.Response()
}

// State returns the lifecycle state.
func (c *Cached) State() State {
	if c.fromCache {
		return stateOf(c.resp)
	}
	return c.Request.State()
}

// FromCache reports whether the last response came from the cache.
func (c *Cached) FromCache() bool { return c.fromCache }

// CacheAge returns the age of the cached response, or false when the last
// response did not come from the cache.
func (c *Cached) CacheAge() (time.Duration, bool) {
	if !c.fromCache {
		return 0, false
	}
	return c.age, true
}

// Unwrap returns the wrapped request.
func (c *Cached) Unwrap() Request { return c.Request }

// CacheStatus finds the caching layer in a chain of wrapped requests and
// reports whether its last response was served from the cache.
func CacheStatus(r Request) (fromCache bool, age time.Duration) {
	for r != nil {
		if c, ok := r.(*Cached); ok {
			age, _ = c.CacheAge()
			return c.FromCache(), age
		}
		u, ok := r.(interface{ Unwrap() Request })
		if !ok {
			return false, 0
		}
		r = u.Unwrap()
	}
	return false, 0
}

var _ Request = (*Cached)(nil)
