package apm

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ConsoleTraceProvider prints spans to stdout, or does nothing when empty.
type ConsoleTraceProvider struct {
	tp *sdktrace.TracerProvider
}

// NewEmptyTraceProvider returns a provider that records nothing.
func NewEmptyTraceProvider() TraceProvider {
	return ConsoleTraceProvider{}
}

// NewConsoleTraceProvider installs a pretty-printing stdout provider.
func NewConsoleTraceProvider() TraceProvider {
	exporter, _ := stdouttrace.New(stdouttrace.WithPrettyPrint())
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return ConsoleTraceProvider{tp}
}

func (ctp ConsoleTraceProvider) Stop() error {
	return nil
}
