// Package app turns validated submissions into executed cycles.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/intake/domain"
	loandomain "github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ratelimit"
)

// Executor is the loan orchestrator as seen from intake.
type Executor interface {
	ExecuteArbitrage(ctx context.Context, caller common.Address,
		amount asset.Amount, strat *strategydomain.Strategy) (loandomain.ExecutionRecord, error)
}

// Service validates, rate-limits and dispatches route submissions. The
// identity it executes under must be in the gate's authorized caller set.
type Service struct {
	identity common.Address

	executor Executor
	registry *asset.Registry
	chainID  uint64
	limiter  *ratelimit.Limiter
	log      logger.LoggerInterface
}

// NewService wires the intake pipeline.
func NewService(identity common.Address, executor Executor, registry *asset.Registry,
	chainID uint64, limiter *ratelimit.Limiter, log logger.LoggerInterface) *Service {

	return &Service{
		identity: identity,
		executor: executor,
		registry: registry,
		chainID:  chainID,
		limiter:  limiter,
		log:      log,
	}
}

// Submit decodes one submission and runs it through a full cycle. Blocks
// until the rate limiter admits it or the context is cancelled.
func (s *Service) Submit(ctx context.Context, data []byte) (loandomain.ExecutionRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return loandomain.ExecutionRecord{}, err
	}

	sub, err := domain.ParseSubmission(data)
	if err != nil {
		return loandomain.ExecutionRecord{}, err
	}

	amount, strat, err := s.build(sub)
	if err != nil {
		return loandomain.ExecutionRecord{}, err
	}

	s.log.Info(ctx, "submission accepted",
		"asset", sub.Asset,
		"amount", sub.Amount,
		"variant", sub.Variant,
		"hops", len(sub.Hops),
	)
	return s.executor.ExecuteArbitrage(ctx, s.identity, amount, strat)
}

// build converts the wire submission into a validated strategy.
func (s *Service) build(sub domain.Submission) (asset.Amount, *strategydomain.Strategy, error) {
	variant, err := strategydomain.ParseVariant(sub.Variant)
	if err != nil {
		return asset.Amount{}, nil, apperror.External(apperror.CodeInvalidSubmission, "variant", err)
	}

	borrowed, err := s.lookup(sub.Asset)
	if err != nil {
		return asset.Amount{}, nil, err
	}
	amount, err := asset.ParseString(borrowed, sub.Amount)
	if err != nil {
		return asset.Amount{}, nil, apperror.External(apperror.CodeInvalidSubmission, "amount", err)
	}

	route := make(strategydomain.Route, len(sub.Hops))
	for i, hop := range sub.Hops {
		venueID, err := venues.Parse(hop.Venue)
		if err != nil {
			return asset.Amount{}, nil, apperror.External(apperror.CodeInvalidSubmission, "venue", err)
		}
		tokenIn, err := s.lookup(hop.TokenIn)
		if err != nil {
			return asset.Amount{}, nil, err
		}
		tokenOut, err := s.lookup(hop.TokenOut)
		if err != nil {
			return asset.Amount{}, nil, err
		}

		minOut := asset.Zero(tokenOut)
		if hop.MinOut != "" {
			minOut, err = asset.ParseString(tokenOut, hop.MinOut)
			if err != nil {
				return asset.Amount{}, nil, apperror.External(apperror.CodeInvalidSubmission, "min_out", err)
			}
		}

		route[i] = strategydomain.Hop{
			Venue:    venueID,
			TokenIn:  tokenIn,
			TokenOut: tokenOut,
			FeeParam: hop.FeeParam,
			MinOut:   minOut,
		}
	}

	strat, err := strategydomain.NewStrategy(variant, route)
	if err != nil {
		return asset.Amount{}, nil, err
	}
	return amount, strat, nil
}

func (s *Service) lookup(symbol string) (*asset.Asset, error) {
	a, ok := s.registry.GetBySymbolAndChain(symbol, s.chainID)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidSubmission,
			apperror.WithContext("unknown asset "+symbol))
	}
	return a, nil
}
