// Package loan implements the flash loan orchestration bounded context.
package loan

import (
	"context"
	"fmt"

	accessDI "github.com/Anuj0x/AaveFlashToolkit/business/access/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/app"
	loanDI "github.com/Anuj0x/AaveFlashToolkit/business/loan/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/infra"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/infra/webhook"
	strategyDI "github.com/Anuj0x/AaveFlashToolkit/business/strategy/di"
	treasuryDI "github.com/Anuj0x/AaveFlashToolkit/business/treasury/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/config"
	"github.com/Anuj0x/AaveFlashToolkit/internal/di"
	"github.com/Anuj0x/AaveFlashToolkit/internal/httpclient"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
	"github.com/Anuj0x/AaveFlashToolkit/internal/store"
)

// Module implements the loan bounded context.
type Module struct{}

// RegisterServices registers the facility, codec and orchestrator.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, loanDI.Facility, func(sr di.ServiceRegistry) *infra.InProcessFacility {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		led := sr.Get("ledger").(*ledger.Ledger)
		return infra.NewInProcessFacility(cfg.Facility.AccountHex(), cfg.Facility.FeeBps, led, log)
	})

	di.RegisterToken(c, loanDI.Codec, func(sr di.ServiceRegistry) *app.Codec {
		cfg := sr.Get("config").(*config.Config)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		codec, err := app.NewCodec(registry, cfg.Engine.ChainID)
		if err != nil {
			panic("failed to build loan codec: " + err.Error())
		}
		return codec
	})

	di.RegisterToken(c, loanDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		led := sr.Get("ledger").(*ledger.Ledger)
		st := sr.Get("store").(*store.Store)

		gate := accessDI.GetGate(sr)
		engine := strategyDI.GetEngine(sr)
		treasury := treasuryDI.GetService(sr)
		facility := loanDI.GetFacility(sr)
		codec := loanDI.GetCodec(sr)

		sinks := []app.RecordSink{infra.NewStoreSink(st, log)}
		if cfg.App.TUIMode {
			sinks = append(sinks, infra.NewUISink())
		}
		if cfg.Webhook.Enabled {
			client, err := httpclient.New()
			if err != nil {
				panic("failed to build webhook client: " + err.Error())
			}
			sinks = append(sinks, webhook.NewNotifier(cfg.Webhook.URL, client, log))
		}

		return app.NewOrchestrator(
			cfg.Engine.AccountHex(),
			facility.Account(),
			gate, led, codec, facility, engine, treasury, sinks, log,
		)
	})

	return nil
}

// Startup seeds the facility's lendable liquidity.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()
	facility := loanDI.GetFacility(mono.Services())
	registry := mono.AssetRegistry()
	chainID := cfg.Engine.ChainID

	for symbol, value := range cfg.Facility.Liquidity {
		a, ok := registry.GetBySymbolAndChain(symbol, chainID)
		if !ok {
			return fmt.Errorf("unknown facility liquidity asset %q on chain %d", symbol, chainID)
		}
		amount, err := asset.ParseString(a, value)
		if err != nil {
			return fmt.Errorf("facility liquidity for %s: %w", symbol, err)
		}
		facility.Seed(amount)
		log.Info(ctx, "facility liquidity seeded", "asset", symbol, "amount", amount.String())
	}

	log.Info(ctx, "loan module started",
		"facility", facility.Account().Hex(),
		"fee_bps", cfg.Facility.FeeBps,
	)
	return nil
}
