package infra

import (
	"context"

	"github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	"github.com/Anuj0x/AaveFlashToolkit/pkg/ui"
)

// UISink forwards execution records to the operator console.
type UISink struct{}

// NewUISink creates the sink.
func NewUISink() *UISink {
	return &UISink{}
}

// Notify sends one record to the running TUI, if any.
func (s *UISink) Notify(_ context.Context, rec domain.ExecutionRecord) {
	ui.Send(ui.ExecutionMsg{
		Timestamp: rec.Timestamp,
		Asset:     rec.Asset,
		Variant:   rec.VariantName,
		Amount:    rec.Amount.String(),
		Profit:    rec.Profit.String(),
		Hops:      rec.HopCount,
		Committed: rec.Committed,
		ErrorCode: rec.ErrorCode,
	})
}
