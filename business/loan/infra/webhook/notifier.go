// Package webhook delivers execution records to an external endpoint.
package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/circuitbreaker"
	"github.com/Anuj0x/AaveFlashToolkit/internal/httpclient"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

// Notifier POSTs each record as JSON through the instrumented client.
// The breaker keeps a dead endpoint from slowing committed cycles down;
// delivery failures are logged and dropped.
type Notifier struct {
	url     string
	client  httpclient.Client
	breaker *circuitbreaker.CircuitBreaker[*http.Response]
	log     logger.LoggerInterface
}

// NewNotifier creates a notifier for the given endpoint.
func NewNotifier(url string, client httpclient.Client, log logger.LoggerInterface) *Notifier {
	return &Notifier{
		url:     url,
		client:  client,
		breaker: circuitbreaker.New[*http.Response](circuitbreaker.DefaultConfig("webhook")),
		log:     log,
	}
}

// Notify delivers one record.
func (n *Notifier) Notify(ctx context.Context, rec domain.ExecutionRecord) {
	_, err := n.breaker.Execute(func() (*http.Response, error) {
		resp, err := n.client.PostJSON(ctx, n.url, rec)
		if err != nil {
			return nil, err
		}
		defer func() {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		n.log.Warn(ctx, "webhook delivery failed",
			"id", rec.ID,
			"breaker", n.breaker.State(),
			"error", err,
		)
	}
}
