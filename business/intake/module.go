// Package intake implements the route-submission bounded context.
package intake

import (
	"context"

	"github.com/Anuj0x/AaveFlashToolkit/business/intake/app"
	intakeDI "github.com/Anuj0x/AaveFlashToolkit/business/intake/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/intake/infra/wsfeed"
	loanDI "github.com/Anuj0x/AaveFlashToolkit/business/loan/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/config"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ratelimit"
	"github.com/Anuj0x/AaveFlashToolkit/internal/wsconn"
)

// Module implements the intake bounded context.
type Module struct{}

// RegisterServices registers the intake service.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, intakeDI.Service, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		orch := loanDI.GetOrchestrator(sr)

		perMinute := cfg.Intake.RoutesPerMin
		if perMinute <= 0 {
			perMinute = 60
		}

		return app.NewService(
			cfg.Engine.AccountHex(),
			orch, registry,
			cfg.Engine.ChainID,
			ratelimit.New(perMinute),
			log,
		)
	})
	return nil
}

// Startup starts consuming the route feed, when one is configured.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()
	svc := intakeDI.GetService(mono.Services())

	if cfg.Intake.FeedURL == "" {
		log.Info(ctx, "intake module started", "feed", "disabled")
		return nil
	}

	conn := wsconn.New(wsconn.DefaultConfig(cfg.Intake.FeedURL))
	feed := wsfeed.New(conn, submitterFunc(func(ctx context.Context, data []byte) error {
		_, err := svc.Submit(ctx, data)
		return err
	}), log)

	go func() {
		if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error(ctx, "route feed stopped", "error", err)
		}
	}()

	log.Info(ctx, "intake module started", "feed", cfg.Intake.FeedURL)
	return nil
}

// submitterFunc adapts a closure to the feed's Submitter port.
type submitterFunc func(ctx context.Context, data []byte) error

func (f submitterFunc) Submit(ctx context.Context, data []byte) error {
	return f(ctx, data)
}
