// Package app contains the loan orchestrator and its port definitions.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// CallbackHandler receives the facility's loan callback. The facility
// guarantees exactly one synchronous callback per loan, delivered before
// RequestLoan returns.
type CallbackHandler interface {
	// OnLoanCallback runs inside the unit of work. origin is the identity
	// the facility calls under; initiator is whoever requested the loan.
	// params carries the ABI-encoded strategy unchanged.
	OnLoanCallback(ctx context.Context, origin common.Address, amount, premium asset.Amount,
		initiator common.Address, params []byte) error
}

// CreditFacility issues uncollateralized same-cycle loans. The facility
// transfers the amount to the borrower, invokes the handler exactly once,
// and pulls amount plus premium back under the borrower's allowance. Any
// failure surfaces as an error and the cycle rolls back.
type CreditFacility interface {
	RequestLoan(ctx context.Context, borrower common.Address, amount asset.Amount,
		params []byte, handler CallbackHandler) error
}

// StrategyExecutor runs a validated strategy. Kept as a port so the
// owner can swap the engine at runtime.
type StrategyExecutor interface {
	Execute(ctx context.Context, trader common.Address, principal asset.Amount,
		strat *strategydomain.Strategy) (asset.Amount, error)
}

// StatsRecorder accumulates profit on successful commits only.
type StatsRecorder interface {
	RecordExecution(profit asset.Amount)
}

// RecordSink receives execution records after the cycle has settled.
// Delivery is best-effort; a sink failure never aborts a committed cycle.
type RecordSink interface {
	Notify(ctx context.Context, record domain.ExecutionRecord)
}
