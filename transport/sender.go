package transport

import (
	"context"
	"errors"
)

// Sentinel errors for transport operations.
var (
	ErrCircuitOpen  = errors.New("transport: circuit breaker is open")
	ErrRateLimited  = errors.New("transport: rate limit exceeded")
	ErrBulkheadFull = errors.New("transport: too many requests in flight")
	ErrTimeout      = errors.New("transport: request timed out")
	ErrHTTPStatus   = errors.New("transport: unexpected http status")
	ErrInvalidURL   = errors.New("transport: invalid server url")
)

// Sender delivers a signed API call and returns the raw response body.
//
// Contract:
//   - params travel in the query string and args in a form-encoded body, both
//     in the order given.
//   - A non-nil error means no usable response was received.
//   - Implementations must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, server, path string, params, args Params) ([]byte, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, server, path string, params, args Params) ([]byte, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, server, path string, params, args Params) ([]byte, error) {
	return f(ctx, server, path, params, args)
}
