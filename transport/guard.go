package transport

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Guard wraps a Sender with client-side protections. Nothing is enabled by
// default; in particular the SDK never retries unless WithRetry is given.
//
// Protections are applied in this order:
//  1. rate limiter
//  2. in-flight limit
//  3. circuit breaker
//  4. retry
//  5. per-attempt timeout
type Guard struct {
	next Sender

	limiter     *rate.Limiter
	waitOnLimit bool
	inflight    *semaphore.Weighted
	breaker     *CircuitBreaker
	retry       *Retry
	timeout     time.Duration
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRateLimit allows at most r sends per second with the given burst. When
// wait is true callers block until a token is available (bounded by ctx);
// otherwise excess sends fail with ErrRateLimited.
func WithRateLimit(r float64, burst int, wait bool) GuardOption {
	return func(g *Guard) {
		if r <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(r), burst)
		g.waitOnLimit = wait
	}
}

// WithMaxInFlight bounds the number of concurrent sends. Excess sends wait
// for a slot until ctx is done.
func WithMaxInFlight(n int64) GuardOption {
	return func(g *Guard) {
		if n > 0 {
			g.inflight = semaphore.NewWeighted(n)
		}
	}
}

// WithCircuitBreaker fails fast while the server keeps failing.
func WithCircuitBreaker(cb *CircuitBreaker) GuardOption {
	return func(g *Guard) { g.breaker = cb }
}

// WithRetry enables retries of failed sends.
func WithRetry(r *Retry) GuardOption {
	return func(g *Guard) { g.retry = r }
}

// WithTimeout bounds every attempt.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) { g.timeout = d }
}

// NewGuard wraps next.
func NewGuard(next Sender, opts ...GuardOption) *Guard {
	g := &Guard{next: next}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Breaker returns the configured circuit breaker, if any.
func (g *Guard) Breaker() *CircuitBreaker { return g.breaker }

// Send delivers the call through the configured protections.
func (g *Guard) Send(ctx context.Context, server, path string, params, args Params) ([]byte, error) {
	var body []byte
	attempt := func(ctx context.Context) error {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		b, err := g.next.Send(ctx, server, path, params, args)
		if err != nil {
			if g.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrTimeout
			}
			return err
		}
		body = b
		return nil
	}

	op := attempt
	if g.retry != nil {
		inner := op
		op = func(ctx context.Context) error { return g.retry.Do(ctx, inner) }
	}
	if g.breaker != nil {
		inner := op
		op = func(ctx context.Context) error { return g.breaker.Do(ctx, inner) }
	}

	if err := g.admit(ctx); err != nil {
		return nil, err
	}
	if g.inflight != nil {
		if err := g.inflight.Acquire(ctx, 1); err != nil {
			return nil, ErrBulkheadFull
		}
		defer g.inflight.Release(1)
	}

	if err := op(ctx); err != nil {
		return nil, err
	}
	return body, nil
}

func (g *Guard) admit(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	if !g.waitOnLimit {
		if !g.limiter.Allow() {
			return ErrRateLimited
		}
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return ErrRateLimited
	}
	return nil
}

var _ Sender = (*Guard)(nil)
