package apm

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the subset of trace.Span the engine uses.
type Span interface {
	SetAttributes(values ...attribute.KeyValue)
	End(options ...trace.SpanEndOption)
	NoticeError(err error)
	AddEvent(name string, options ...trace.EventOption)
	RecordError(err error, options ...trace.EventOption)
	SetStatus(code codes.Code, description string)
}

type traceSpan struct {
	span trace.Span
}

// NewSpan wraps a trace.Span.
func NewSpan(span trace.Span) Span {
	return &traceSpan{span}
}

func (t *traceSpan) SetAttributes(values ...attribute.KeyValue) {
	t.span.SetAttributes(values...)
}

func (t *traceSpan) End(options ...trace.SpanEndOption) {
	t.span.End(options...)
}

// NoticeError records the error and marks the span failed.
func (t *traceSpan) NoticeError(err error) {
	t.span.RecordError(err)
	t.span.SetStatus(codes.Error, err.Error())
}

func (t *traceSpan) AddEvent(name string, options ...trace.EventOption) {
	t.span.AddEvent(name, options...)
}

func (t *traceSpan) RecordError(err error, options ...trace.EventOption) {
	t.span.RecordError(err, options...)
}

func (t *traceSpan) SetStatus(code codes.Code, description string) {
	t.span.SetStatus(code, description)
}
