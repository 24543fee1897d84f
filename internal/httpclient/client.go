// Package httpclient provides an OTEL-instrumented HTTP client for the
// engine's outbound calls.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultDialKeepAlive   = 10 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute

	metricRequestCounter = "http_client_requests_total"
)

// Client is the interface for making HTTP requests.
type Client interface {
	// Do executes a request and returns the response.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
	// PostJSON marshals body and POSTs it to url.
	PostJSON(ctx context.Context, url string, body any) (*http.Response, error)
}

// InstrumentedClient wraps http.Client with OTEL instrumentation.
type InstrumentedClient struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	defaultHeaders map[string]string
}

// New creates a new instrumented HTTP client.
func New(opts ...ClientOption) (Client, error) {
	options := newClientOptions(opts...)

	httpClient := options.client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	if httpClient.Transport == nil {
		httpClient.Transport = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		}
	}
	httpClient.Transport = otelhttp.NewTransport(httpClient.Transport)

	counter, err := otel.Meter("httpclient").Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total outbound HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("httpclient: init metrics: %w", err)
	}

	return &InstrumentedClient{
		client:         httpClient,
		requestCounter: counter,
		defaultHeaders: options.headers,
	}, nil
}

// Do executes the request with instrumentation and default headers.
func (c *InstrumentedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for k, v := range c.defaultHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(req.WithContext(ctx))

	status := "error"
	if err == nil {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}
	c.requestCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", req.Method),
			attribute.String("status", status),
		))

	return resp, err
}

// PostJSON marshals body and POSTs it to url with content-type JSON.
func (c *InstrumentedClient) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.Do(ctx, req)
}
