// Package treasury implements profit withdrawal and stats accounting.
package treasury

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	accessDI "github.com/Anuj0x/AaveFlashToolkit/business/access/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/treasury/app"
	treasuryDI "github.com/Anuj0x/AaveFlashToolkit/business/treasury/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/treasury/domain"
	venuesDI "github.com/Anuj0x/AaveFlashToolkit/business/venues/di"
	venuesdomain "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/config"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
)

// Module implements the treasury bounded context.
type Module struct{}

// RegisterServices registers the treasury service.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, treasuryDI.Service, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		led := sr.Get("ledger").(*ledger.Ledger)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		gate := accessDI.GetGate(sr)
		router := venuesDI.GetRouter(sr)

		refSymbol := cfg.Treasury.ReferenceAsset
		if refSymbol == "" {
			refSymbol = "USDC"
		}
		reference, ok := registry.GetBySymbolAndChain(refSymbol, cfg.Engine.ChainID)
		if !ok {
			panic(fmt.Sprintf("treasury: unknown reference asset %q on chain %d",
				refSymbol, cfg.Engine.ChainID))
		}

		conversionVenue := venuesdomain.UniswapV3
		if cfg.Treasury.ConversionVenue != "" {
			v, err := venuesdomain.Parse(cfg.Treasury.ConversionVenue)
			if err != nil {
				panic(fmt.Sprintf("treasury: %v", err))
			}
			conversionVenue = v
		}

		return app.NewService(
			cfg.Engine.AccountHex(),
			gate, led, router,
			domain.NewStats(),
			reference,
			cfg.Treasury.TipRecipientHex(),
			conversionVenue,
			cfg.Treasury.ConversionFeeParam,
			log,
		)
	})

	return nil
}

// Startup restores the persisted stats counters.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	svc := treasuryDI.GetService(mono.Services())
	st := mono.Store()
	registry := mono.AssetRegistry()
	chainID := mono.Config().Engine.ChainID

	count, err := st.CountCommitted(ctx)
	if err != nil {
		return fmt.Errorf("restore execution count: %w", err)
	}

	sums, err := st.CommittedProfitByAsset(ctx)
	if err != nil {
		return fmt.Errorf("restore profit sums: %w", err)
	}

	total := decimal.Zero
	for symbol, raw := range sums {
		a, ok := registry.GetBySymbolAndChain(symbol, chainID)
		if !ok {
			log.Warn(ctx, "skipping profit for unknown asset", "symbol", symbol)
			continue
		}
		total = total.Add(decimal.NewFromBigInt(raw, -int32(a.Decimals())))
	}

	svc.Stats().Restore(count, total)
	log.Info(ctx, "treasury module started",
		"executions", count,
		"cumulative_profit", total.String(),
	)
	return nil
}
