// Package strategy implements the strategy-execution bounded context.
package strategy

import (
	"context"

	"github.com/Anuj0x/AaveFlashToolkit/business/strategy/app"
	strategyDI "github.com/Anuj0x/AaveFlashToolkit/business/strategy/di"
	venuesDI "github.com/Anuj0x/AaveFlashToolkit/business/venues/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
)

// Module implements the strategy bounded context.
type Module struct{}

// RegisterServices registers the strategy engine.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, strategyDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		log := sr.Get("logger").(logger.LoggerInterface)
		router := venuesDI.GetRouter(sr)
		return app.NewEngine(router, log)
	})
	return nil
}

// Startup initializes the strategy module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "strategy module started")
	return nil
}
