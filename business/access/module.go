// Package access implements the authorization bounded context.
package access

import (
	"context"

	accessDI "github.com/Anuj0x/AaveFlashToolkit/business/access/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/access/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/config"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
)

// Module implements the access bounded context.
type Module struct{}

// RegisterServices registers the shared gate with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, accessDI.Gate, func(sr di.ServiceRegistry) *domain.Gate {
		cfg := sr.Get("config").(*config.Config)

		gate := domain.NewGate(cfg.Engine.OwnerHex())
		owner := cfg.Engine.OwnerHex()
		for _, caller := range cfg.Engine.AuthorizedCallersHex() {
			if err := gate.SetAuthorizedCaller(owner, caller, true); err != nil {
				panic("failed to seed authorized caller: " + err.Error())
			}
		}
		return gate
	})
	return nil
}

// Startup initializes the access module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	gate := accessDI.GetGate(mono.Services())
	mono.Logger().Info(ctx, "access module started",
		"owner", gate.Owner().Hex(),
		"paused", gate.IsPaused(),
	)
	return nil
}
