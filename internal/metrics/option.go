package metrics

// Provider identifies a metric export path.
type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "otelCollector"
)

// Config holds meter provider configuration.
type Config struct {
	ServiceName string
	Provider    []ProviderCfg
}

// ProviderCfg configures one export path.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// OptionFn mutates the metrics Config.
type OptionFn func(config Config) Config

// WithServiceName sets the service name on the resource.
func WithServiceName(name string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = name
		return config
	}
}

// WithProviderConfig appends an export path.
func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Provider = append(config.Provider, provider)
		return config
	}
}

// NewOtelCollectorConfig builds an OTLP gRPC export path.
func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

// PromServerConfig configures the Prometheus scrape server.
type PromServerConfig struct {
	port string
}

// PromOptionFn mutates the Prometheus server config.
type PromOptionFn func(config PromServerConfig) PromServerConfig

// WithPort sets the scrape server port.
func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
