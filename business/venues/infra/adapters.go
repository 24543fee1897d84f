// Package infra contains the venue adapters over the liquidity backend.
package infra

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// Liquidity is the pricing/settlement backend the adapters call into.
type Liquidity interface {
	VenueAccount(venue domain.ID) common.Address
	Execute(ctx context.Context, order domain.Order, feeHundredthsBps uint32) (asset.Amount, error)
}

// FeeTierAdapter serves venues quoting with an explicit fee tier
// (concentrated liquidity convention).
type FeeTierAdapter struct {
	desc    domain.Descriptor
	backend Liquidity
}

// NewFeeTierAdapter creates the adapter for a fee-tier venue.
func NewFeeTierAdapter(id domain.ID, backend Liquidity) *FeeTierAdapter {
	desc, ok := domain.Describe(id)
	if !ok || desc.Convention != domain.ConventionFeeTier {
		panic("not a fee-tier venue: " + string(id))
	}
	return &FeeTierAdapter{desc: desc, backend: backend}
}

// Account returns the venue's spender identity.
func (a *FeeTierAdapter) Account() common.Address {
	return a.backend.VenueAccount(a.desc.ID)
}

// Execute validates the fee tier and runs the swap.
func (a *FeeTierAdapter) Execute(ctx context.Context, order domain.Order) (asset.Amount, error) {
	if !a.desc.ValidFeeParam(order.FeeParam) {
		return asset.Amount{}, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithMessage("unknown fee tier"),
			apperror.WithContext(string(a.desc.ID)))
	}
	return a.backend.Execute(ctx, order, a.desc.EffectiveFee(order.FeeParam))
}

// PairPathAdapter serves pair-path constant-product venues. The venue's
// fee is fixed; the order's fee parameter must be zero.
type PairPathAdapter struct {
	desc    domain.Descriptor
	backend Liquidity
}

// NewPairPathAdapter creates the adapter for a pair-path venue.
func NewPairPathAdapter(id domain.ID, backend Liquidity) *PairPathAdapter {
	desc, ok := domain.Describe(id)
	if !ok || desc.Convention != domain.ConventionPairPath {
		panic("not a pair-path venue: " + string(id))
	}
	return &PairPathAdapter{desc: desc, backend: backend}
}

// Account returns the venue's spender identity.
func (a *PairPathAdapter) Account() common.Address {
	return a.backend.VenueAccount(a.desc.ID)
}

// Execute rejects non-zero fee parameters and runs the swap at the
// venue's fixed fee.
func (a *PairPathAdapter) Execute(ctx context.Context, order domain.Order) (asset.Amount, error) {
	if !a.desc.ValidFeeParam(order.FeeParam) {
		return asset.Amount{}, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithMessage("pair-path venues take no fee parameter"),
			apperror.WithContext(string(a.desc.ID)))
	}
	return a.backend.Execute(ctx, order, a.desc.EffectiveFee(order.FeeParam))
}
