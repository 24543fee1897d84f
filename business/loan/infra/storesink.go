package infra

import (
	"context"

	"github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/store"
)

// StoreSink persists execution records. Persistence failures are logged,
// never surfaced: the cycle has already settled.
type StoreSink struct {
	store *store.Store
	log   logger.LoggerInterface
}

// NewStoreSink creates the sink over an open store.
func NewStoreSink(st *store.Store, log logger.LoggerInterface) *StoreSink {
	return &StoreSink{store: st, log: log}
}

// Notify writes one record.
func (s *StoreSink) Notify(ctx context.Context, rec domain.ExecutionRecord) {
	row := store.ExecutionRecord{
		ID:          rec.ID,
		Timestamp:   rec.Timestamp.UnixMilli(),
		AssetSymbol: rec.Asset,
		Variant:     rec.VariantName,
		Amount:      rec.AmountRaw,
		Premium:     rec.PremiumRaw,
		FinalAmount: rec.FinalAmountRaw,
		Profit:      rec.ProfitRaw,
		Committed:   rec.Committed,
		ErrorCode:   rec.ErrorCode,
		HopCount:    rec.HopCount,
	}
	if err := s.store.Insert(ctx, row); err != nil {
		s.log.Warn(ctx, "failed to persist execution record", "id", rec.ID, "error", err)
	}
}
