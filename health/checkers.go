package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/s1sdk/request"
	"github.com/jonwraymond/s1sdk/session"
	"github.com/jonwraymond/s1sdk/transport"
)

// NewRedisChecker pings the Redis server behind a shared cache or session
// backend.
func NewRedisChecker(name string, client redis.UniversalClient) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		if err := client.Ping(ctx).Err(); err != nil {
			return Unhealthy("redis unreachable", err)
		}
		return Healthy("redis reachable")
	})
}

// NewDirChecker verifies that dir exists and is writable. It backs the file
// cache and the file session backend.
func NewDirChecker(name, dir string) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		if err := ctx.Err(); err != nil {
			return Unhealthy("context cancelled", err)
		}
		details := map[string]any{"dir": dir}

		info, err := os.Stat(dir)
		if err != nil {
			return Unhealthy("directory unavailable", err).WithDetails(details)
		}
		if !info.IsDir() {
			return Unhealthy("not a directory", ErrCheckFailed).WithDetails(details)
		}

		f, err := os.CreateTemp(dir, ".health-*")
		if err != nil {
			return Unhealthy("directory not writable", err).WithDetails(details)
		}
		_ = f.Close()
		_ = os.Remove(f.Name())
		return Healthy("directory writable").WithDetails(details)
	})
}

// NewAPIChecker executes the request returned by newRequest. A successful
// reply is healthy, a valid error reply means the API is reachable but
// refused the probe, and anything else is unhealthy.
func NewAPIChecker(name string, newRequest func() (request.Request, error)) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		req, err := newRequest()
		if err != nil {
			return Unhealthy("cannot build probe request", err)
		}
		resp := req.Execute(ctx)
		details := map[string]any{"command": req.Command(), "action": req.Action()}

		switch {
		case resp.Err() != nil:
			return Unhealthy("api unreachable", resp.Err()).WithDetails(details)
		case resp.Success():
			return Healthy("api reachable").WithDetails(details)
		case resp.Valid():
			status, _ := resp.Status()
			details["status"] = status
			return Degraded(fmt.Sprintf("api refused probe: %s", resp.StatusMessage())).WithDetails(details)
		default:
			return Unhealthy("api returned an invalid response", ErrCheckFailed).WithDetails(details)
		}
	})
}

// NewSessionChecker reports degraded when store holds no session or the
// session expires within warnBelow.
func NewSessionChecker(name string, store session.Store, warnBelow time.Duration) Checker {
	return NewCheckerFunc(name, func(context.Context) Result {
		if !store.HasSession() {
			return Degraded("no active session")
		}
		remaining := store.Timeout()
		details := map[string]any{"remaining": remaining.String()}
		if remaining < warnBelow {
			return Degraded("session about to expire").WithDetails(details)
		}
		return Healthy("session active").WithDetails(details)
	})
}

// NewCircuitChecker reports the state of a transport circuit breaker.
func NewCircuitChecker(name string, cb *transport.CircuitBreaker) Checker {
	return NewCheckerFunc(name, func(context.Context) Result {
		state := cb.State()
		details := map[string]any{"state": state.String()}
		switch state {
		case transport.CircuitClosed:
			return Healthy("circuit closed").WithDetails(details)
		case transport.CircuitHalfOpen:
			return Degraded("circuit probing").WithDetails(details)
		default:
			return Unhealthy("circuit open", transport.ErrCircuitOpen).WithDetails(details)
		}
	})
}
