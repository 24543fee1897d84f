package httpclient

import (
	"net/http"
	"time"
)

type clientOptions struct {
	client  *http.Client
	timeout time.Duration
	headers map[string]string
}

// ClientOption mutates client construction options.
type ClientOption func(*clientOptions)

func newClientOptions(opts ...ClientOption) *clientOptions {
	options := &clientOptions{
		timeout: defaultRequestTimeout,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithHTTPClient supplies a pre-configured http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.client = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHeader adds a default header to every request.
func WithHeader(key, value string) ClientOption {
	return func(o *clientOptions) {
		o.headers[key] = value
	}
}
