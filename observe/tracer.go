package observe

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CallMeta describes an API call for telemetry purposes.
type CallMeta struct {
	Command string
	Action  string
	Server  string
}

// CallMetaFromPath derives call metadata from an API path of the form
// /api/<command>/<action>.
func CallMetaFromPath(server, path string) CallMeta {
	meta := CallMeta{Server: server}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 {
		meta.Command = parts[len(parts)-2]
		meta.Action = parts[len(parts)-1]
	} else if len(parts) > 0 {
		meta.Action = parts[len(parts)-1]
	}
	return meta
}

// SpanName returns the span name for the call: s1.call.<command>.<action>
func (m CallMeta) SpanName() string {
	return "s1.call." + m.Command + "." + m.Action
}

func (m CallMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("s1.command", m.Command),
		attribute.String("s1.action", m.Action),
	}
	if m.Server != "" {
		attrs = append(attrs, attribute.String("server.address", m.Server))
	}
	return attrs
}

// Tracer starts and ends spans around API calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
