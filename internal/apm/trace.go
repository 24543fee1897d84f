// Package apm wraps OpenTelemetry tracing behind small interfaces so the
// business packages never import the SDK directly.
package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer creates spans for one instrumented component.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
	GetTracer() trace.Tracer
}

type openTracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer for the named component.
func NewTracer(name string) Tracer {
	return &openTracer{otel.Tracer(name)}
}

func (t *openTracer) StartSpanFromContext(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, spanName, opts...)
	return ctx, NewSpan(span)
}

func (t *openTracer) SpanFromContext(ctx context.Context) Span {
	return NewSpan(trace.SpanFromContext(ctx))
}

func (t *openTracer) GetTracer() trace.Tracer {
	return t.tracer
}
