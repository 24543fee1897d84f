// Package metrics configures the OpenTelemetry meter provider and the
// Prometheus scrape endpoint.
package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// MetricProvider is the shutdown-capable meter provider handle.
type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

func getReaders(ctx context.Context, cfg Config) []sdkmetric.Reader {
	var readers []sdkmetric.Reader

	for _, provider := range cfg.Provider {
		switch provider.Provider {
		case PrometheusProvider:
			promExporter, err := prometheus.New()
			if err != nil {
				panic(err)
			}
			readers = append(readers, promExporter)

		case OtelCollector:
			opts := []otlpmetricgrpc.Option{
				otlpmetricgrpc.WithEndpointURL(provider.Endpoint),
				otlpmetricgrpc.WithHeaders(provider.Headers),
			}
			if provider.Insecure {
				opts = append(opts, otlpmetricgrpc.WithInsecure())
			}

			exp, err := otlpmetricgrpc.New(ctx, opts...)
			if err != nil {
				panic(err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exp))
		}
	}

	if len(readers) == 0 {
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			panic(err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp))
	}

	return readers
}

// NewMetricProvider builds the meter provider and installs it globally.
func NewMetricProvider(options ...OptionFn) MetricProvider {
	ctx := context.Background()

	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	var metricsOps []sdkmetric.Option
	for _, reader := range getReaders(ctx, cfg) {
		metricsOps = append(metricsOps, sdkmetric.WithReader(reader))
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = os.Getenv("OTEL_SERVICE_NAME")
	}
	metricsOps = append(metricsOps, sdkmetric.WithResource(
		resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
	))

	meterProvider := sdkmetric.NewMeterProvider(metricsOps...)
	otel.SetMeterProvider(meterProvider)

	return meterProvider
}

// ServePrometheusMetrics exposes /metrics and blocks serving it.
func ServePrometheusMetrics(opt ...PromOptionFn) {
	var cfg PromServerConfig
	port := "9090"

	for _, o := range opt {
		cfg = o(cfg)
	}
	if cfg.port != "" {
		port = cfg.port
	}

	log.Printf("serving metrics at localhost:%s/metrics", port)
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), nil) //nolint:gosec // G114: scrape endpoint, no timeout tuning needed
	if err != nil {
		fmt.Printf("error serving http: %v", err)
	}
}
