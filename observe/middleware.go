package observe

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jonwraymond/s1sdk/transport"
)

// Middleware instruments a transport.Sender with a span, metrics and a log
// entry per call. Every call is tagged with a fresh ULID request id.
//
// Contract:
//   - Concurrency: the wrapped Sender is safe for concurrent use if next is.
//   - Errors: errors from next are recorded and returned unchanged.
//   - Parameters and arguments are never logged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from its parts.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// WrapSender returns a Sender that instruments every call made through next.
func (m *Middleware) WrapSender(next transport.Sender) transport.Sender {
	return transport.SenderFunc(func(ctx context.Context, server, path string, params, args transport.Params) ([]byte, error) {
		meta := CallMetaFromPath(server, path)
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		body, err := next.Send(ctx, server, path, params, args)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordCall(ctx, meta, duration, err)

		fields := []Field{
			F("request_id", newRequestID()),
			F("command", meta.Command),
			F("action", meta.Action),
			F("duration_ms", float64(duration.Milliseconds())),
		}
		if err != nil {
			fields = append(fields, F("error", err.Error()))
			m.logger.Warn(ctx, "api call failed", fields...)
		} else {
			fields = append(fields, F("bytes", len(body)))
			m.logger.Debug(ctx, "api call completed", fields...)
		}
		return body, err
	})
}

func newRequestID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
