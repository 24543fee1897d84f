// Package domain models the borrow/execute/repay cycle.
package domain

import (
	"time"

	"github.com/google/uuid"

	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// CycleState enumerates where a unit of work stands. Aborted is reachable
// from every state; every other transition is strictly forward.
type CycleState int

const (
	StateIdle CycleState = iota
	StateBorrowing
	StateExecutingStrategy
	StateRepaying
	StateCommitted
	StateAborted
)

// String returns the state name for logs and records.
func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBorrowing:
		return "borrowing"
	case StateExecutingStrategy:
		return "executing-strategy"
	case StateRepaying:
		return "repaying"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// LoanRequest exists only for the duration of one unit of work.
type LoanRequest struct {
	Asset  *asset.Asset
	Amount asset.Amount
}

// ExecutionContext carries the running amounts of the active cycle.
// Transient: destroyed at commit or abort.
type ExecutionContext struct {
	State       CycleState
	Borrowed    asset.Amount
	Premium     asset.Amount
	FinalAmount asset.Amount
}

// ExecutionRecord is the durable result of one cycle.
type ExecutionRecord struct {
	ID          string                 `json:"id"`
	Timestamp   time.Time              `json:"timestamp"`
	Asset       string                 `json:"asset"`
	Variant     strategydomain.Variant `json:"-"`
	VariantName string                 `json:"variant"`
	HopCount    int                    `json:"hop_count"`
	Amount      asset.Amount           `json:"-"`
	Premium     asset.Amount           `json:"-"`
	FinalAmount asset.Amount           `json:"-"`
	Profit      asset.Amount           `json:"-"`
	Committed   bool                   `json:"committed"`
	ErrorCode   string                 `json:"error_code,omitempty"`

	// String forms for JSON consumers (webhook payloads, TUI).
	AmountRaw      string `json:"amount"`
	PremiumRaw     string `json:"premium"`
	FinalAmountRaw string `json:"final_amount"`
	ProfitRaw      string `json:"profit"`
}

// NewExecutionRecord assigns the record identity and derives the raw
// string fields from the amounts.
func NewExecutionRecord(variant strategydomain.Variant, hopCount int, amount, premium, finalAmount, profit asset.Amount, committed bool, errorCode string) ExecutionRecord {
	rec := ExecutionRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Asset:       amount.Asset().Symbol(),
		Variant:     variant,
		VariantName: variant.String(),
		HopCount:    hopCount,
		Amount:      amount,
		Premium:     premium,
		FinalAmount: finalAmount,
		Profit:      profit,
		Committed:   committed,
		ErrorCode:   errorCode,
	}
	rec.AmountRaw = amount.Raw().String()
	rec.PremiumRaw = premium.Raw().String()
	rec.FinalAmountRaw = finalAmount.Raw().String()
	rec.ProfitRaw = profit.Raw().String()
	return rec
}
