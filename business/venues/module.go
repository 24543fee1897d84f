// Package venues implements the venue-routing bounded context.
package venues

import (
	"context"
	"fmt"
	"time"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/app"
	venuesDI "github.com/Anuj0x/AaveFlashToolkit/business/venues/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/business/venues/infra"
	"github.com/Anuj0x/AaveFlashToolkit/business/venues/infra/inmem"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/config"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
)

// Module implements the venues bounded context.
type Module struct{}

// RegisterServices registers the liquidity backend and router.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, venuesDI.Backend, func(sr di.ServiceRegistry) *inmem.Backend {
		led := sr.Get("ledger").(*ledger.Ledger)
		return inmem.NewBackend(led)
	})

	di.RegisterToken(c, venuesDI.Router, func(sr di.ServiceRegistry) *app.Router {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		led := sr.Get("ledger").(*ledger.Ledger)
		backend := venuesDI.GetBackend(sr)

		deadline := cfg.Venues.SwapDeadline
		if deadline <= 0 {
			deadline = 30 * time.Second
		}

		return app.NewRouter(
			infra.NewFeeTierAdapter(domain.UniswapV3, backend),
			infra.NewPairPathAdapter(domain.SushiSwap, backend),
			infra.NewPairPathAdapter(domain.QuickSwap, backend),
			led, log, deadline,
		)
	})

	return nil
}

// Startup seeds the configured pools into the liquidity backend.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	backend := venuesDI.GetBackend(mono.Services())
	registry := mono.AssetRegistry()
	chainID := mono.Config().Engine.ChainID

	for _, seed := range mono.Config().Venues.Pools {
		venueID, err := domain.Parse(seed.Venue)
		if err != nil {
			return err
		}
		tokenA, err := lookupAsset(registry, seed.TokenA, chainID)
		if err != nil {
			return err
		}
		tokenB, err := lookupAsset(registry, seed.TokenB, chainID)
		if err != nil {
			return err
		}
		reserveA, err := asset.ParseString(tokenA, seed.ReserveA)
		if err != nil {
			return err
		}
		reserveB, err := asset.ParseString(tokenB, seed.ReserveB)
		if err != nil {
			return err
		}

		account := backend.AddPool(venueID, reserveA, reserveB, seed.FeeParam)
		log.Info(ctx, "pool seeded",
			"venue", seed.Venue,
			"pair", seed.TokenA+"/"+seed.TokenB,
			"fee_param", seed.FeeParam,
			"account", account.Hex(),
		)
	}

	log.Info(ctx, "venues module started", "pools", len(mono.Config().Venues.Pools))
	return nil
}

func lookupAsset(registry *asset.Registry, symbol string, chainID uint64) (*asset.Asset, error) {
	a, ok := registry.GetBySymbolAndChain(symbol, chainID)
	if !ok {
		return nil, fmt.Errorf("unknown asset symbol %q on chain %d", symbol, chainID)
	}
	return a, nil
}
