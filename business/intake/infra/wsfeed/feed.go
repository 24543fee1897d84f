// Package wsfeed consumes route submissions from a WebSocket feed.
package wsfeed

import (
	"context"

	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/wsconn"
)

// Submitter handles one raw submission end to end.
type Submitter interface {
	Submit(ctx context.Context, data []byte) error
}

// Feed pumps messages from a reconnecting WebSocket connection into the
// intake service. Individual submission failures are logged and skipped;
// the feed itself only stops on context cancellation.
type Feed struct {
	conn      *wsconn.Client
	submitter Submitter
	log       logger.LoggerInterface
}

// New creates a feed over an unconnected client.
func New(conn *wsconn.Client, submitter Submitter, log logger.LoggerInterface) *Feed {
	return &Feed{conn: conn, submitter: submitter, log: log}
}

// Run connects and consumes until ctx is cancelled or the connection is
// permanently closed.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.conn.Connect(ctx); err != nil {
		return apperror.External(apperror.CodeFeedConnectionFailed, "connect feed", err)
	}
	defer f.conn.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-f.conn.Messages():
			if !ok {
				return apperror.New(apperror.CodeFeedConnectionFailed,
					apperror.WithMessage("feed closed"))
			}
			if err := f.submitter.Submit(ctx, msg); err != nil {
				f.log.Warn(ctx, "submission rejected",
					"code", string(apperror.GetCode(err)),
					"error", err.Error(),
				)
			}
		}
	}
}
