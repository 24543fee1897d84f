// Package infra contains the credit facility and the record sinks.
package infra

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/loan/app"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

// InProcessFacility issues loans out of its own ledger liquidity. It
// guarantees exactly one synchronous callback per loan and pulls the
// principal plus premium back under the borrower's allowance before
// RequestLoan returns.
type InProcessFacility struct {
	account common.Address
	feeBps  int64
	ledger  *ledger.Ledger
	log     logger.LoggerInterface
}

// NewInProcessFacility creates a facility charging feeBps per loan.
func NewInProcessFacility(account common.Address, feeBps int64, led *ledger.Ledger, log logger.LoggerInterface) *InProcessFacility {
	return &InProcessFacility{
		account: account,
		feeBps:  feeBps,
		ledger:  led,
		log:     log,
	}
}

// Account returns the facility's liquidity account.
func (f *InProcessFacility) Account() common.Address {
	return f.account
}

// Seed mints liquidity into the facility's account.
func (f *InProcessFacility) Seed(amount asset.Amount) {
	f.ledger.Mint(f.account, amount)
}

// RequestLoan transfers the amount to the borrower, invokes the handler
// once, and settles repayment. Callback errors pass through unchanged.
func (f *InProcessFacility) RequestLoan(ctx context.Context, borrower common.Address,
	amount asset.Amount, params []byte, handler app.CallbackHandler) error {

	premium := amount.MulDivBps(f.feeBps)

	if err := f.ledger.Transfer(f.account, borrower, amount); err != nil {
		return apperror.External(apperror.CodeFacilityCallFailed, "issue loan", err)
	}

	if err := handler.OnLoanCallback(ctx, f.account, amount, premium, borrower, params); err != nil {
		return apperror.Wrap(err, apperror.CodeFacilityCallFailed, "loan callback")
	}

	amountOwed := amount.MustAdd(premium)
	if err := f.ledger.TransferFrom(f.account, borrower, f.account, amountOwed); err != nil {
		return apperror.External(apperror.CodeFacilityCallFailed, "settle repayment", err)
	}

	f.log.Debug(ctx, "loan settled",
		"borrower", borrower.Hex(),
		"amount", amount.String(),
		"premium", premium.String(),
	)
	return nil
}
