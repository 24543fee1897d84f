package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	accessdomain "github.com/Anuj0x/AaveFlashToolkit/business/access/domain"
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	"github.com/Anuj0x/AaveFlashToolkit/business/treasury/domain"
	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

// StatsView is the read model GetStats returns.
type StatsView struct {
	ExecutionCount   int64
	CumulativeProfit decimal.Decimal
	Paused           bool
}

// Service handles profit withdrawal and stats accounting. All mutating
// operations are owner-only and remain available while paused.
type Service struct {
	account common.Address // the engine account profits accumulate under

	gate   *accessdomain.Gate
	ledger *ledger.Ledger
	router SwapRouter
	stats  *domain.Stats
	log    logger.LoggerInterface

	referenceAsset     *asset.Asset
	tipRecipient       common.Address
	conversionVenue    venues.ID
	conversionFeeParam uint32
}

// NewService wires the treasury.
func NewService(account common.Address, gate *accessdomain.Gate, led *ledger.Ledger,
	router SwapRouter, stats *domain.Stats, referenceAsset *asset.Asset,
	tipRecipient common.Address, conversionVenue venues.ID, conversionFeeParam uint32,
	log logger.LoggerInterface) *Service {

	return &Service{
		account:            account,
		gate:               gate,
		ledger:             led,
		router:             router,
		stats:              stats,
		log:                log,
		referenceAsset:     referenceAsset,
		tipRecipient:       tipRecipient,
		conversionVenue:    conversionVenue,
		conversionFeeParam: conversionFeeParam,
	}
}

// RecordExecution accumulates one committed cycle's profit.
func (s *Service) RecordExecution(profit asset.Amount) {
	s.stats.RecordExecution(profit.ToDecimal())
}

// Stats returns the underlying accumulator, used to restore persisted
// counters at startup.
func (s *Service) Stats() *domain.Stats {
	return s.stats
}

// WithdrawProfitWithTip sends tipPercent of amount to the incentive
// recipient and the remainder to the owner. A non-reference token's tip
// is converted to the reference asset first; the owner remainder stays
// amount minus the requested tip, independent of the conversion outcome.
func (s *Service) WithdrawProfitWithTip(ctx context.Context, caller common.Address,
	token *asset.Asset, amount asset.Amount, tipPercent uint8) error {

	if err := s.gate.RequireOwner(caller); err != nil {
		return err
	}
	if tipPercent > 100 {
		return apperror.New(apperror.CodeInvalidTipPercentage,
			apperror.WithContext(fmt.Sprintf("%d", tipPercent)))
	}

	balance := s.ledger.BalanceOf(s.account, token)
	if enough, err := balance.GreaterThanOrEqual(amount); err != nil {
		return apperror.External(apperror.CodeLedgerOperationFailed, "balance check", err)
	} else if !enough {
		return apperror.New(apperror.CodeInsufficientBalance,
			apperror.WithContext(fmt.Sprintf("have %s, want %s", balance, amount)))
	}

	tipAmount := amount.PercentOf(tipPercent)
	ownerAmount := amount.MustSub(tipAmount)

	if tipAmount.IsPositive() {
		if err := s.payTip(ctx, token, tipAmount); err != nil {
			return err
		}
	}
	if ownerAmount.IsPositive() {
		if err := s.ledger.Transfer(s.account, s.gate.Owner(), ownerAmount); err != nil {
			return apperror.External(apperror.CodeLedgerOperationFailed, "owner transfer", err)
		}
	}

	s.log.Info(ctx, "profit withdrawn",
		"token", token.Symbol(),
		"amount", amount.String(),
		"tip_percent", tipPercent,
		"tip", tipAmount.String(),
	)
	return nil
}

// payTip forwards the tip, converting to the reference asset when needed.
func (s *Service) payTip(ctx context.Context, token *asset.Asset, tipAmount asset.Amount) error {
	if token.ID().Equals(s.referenceAsset.ID()) {
		if err := s.ledger.Transfer(s.account, s.tipRecipient, tipAmount); err != nil {
			return apperror.External(apperror.CodeLedgerOperationFailed, "tip transfer", err)
		}
		return nil
	}

	converted, err := s.router.Swap(ctx, s.conversionVenue, s.account,
		tipAmount, asset.Zero(s.referenceAsset), s.referenceAsset, s.conversionFeeParam)
	if err != nil {
		return err
	}
	if err := s.ledger.Transfer(s.account, s.tipRecipient, converted); err != nil {
		return apperror.External(apperror.CodeLedgerOperationFailed, "converted tip transfer", err)
	}
	return nil
}

// EmergencyWithdraw clamps amount to the available balance and drains it
// to the owner. Owner-only, usable while paused, last resort.
func (s *Service) EmergencyWithdraw(ctx context.Context, caller common.Address,
	token *asset.Asset, amount asset.Amount) (asset.Amount, error) {

	if err := s.gate.RequireOwner(caller); err != nil {
		return asset.Amount{}, err
	}

	balance := s.ledger.BalanceOf(s.account, token)
	withdraw, err := amount.Min(balance)
	if err != nil {
		return asset.Amount{}, apperror.External(apperror.CodeLedgerOperationFailed, "balance clamp", err)
	}
	if withdraw.IsZero() {
		return withdraw, nil
	}

	if err := s.ledger.Transfer(s.account, s.gate.Owner(), withdraw); err != nil {
		return asset.Amount{}, apperror.External(apperror.CodeLedgerOperationFailed, "emergency transfer", err)
	}

	s.log.Warn(ctx, "emergency withdrawal",
		"token", token.Symbol(),
		"requested", amount.String(),
		"withdrawn", withdraw.String(),
	)
	return withdraw, nil
}

// GetStats returns the execution counters and the pause flag. Pure read.
func (s *Service) GetStats() StatsView {
	count, profit := s.stats.Snapshot()
	return StatsView{
		ExecutionCount:   count,
		CumulativeProfit: profit,
		Paused:           s.gate.IsPaused(),
	}
}

// EstimateGas returns the static per-variant gas bound.
func (s *Service) EstimateGas(variant strategydomain.Variant) uint64 {
	return domain.EstimateGas(variant)
}
