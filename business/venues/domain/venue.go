// Package domain defines the closed set of liquidity venues and their
// quoting conventions.
package domain

import "fmt"

// ID identifies one venue. The set is fixed and finite; dispatch over it
// is an explicit switch, never open registration.
type ID string

const (
	// UniswapV3 quotes with a fee tier in hundredths of a bip.
	UniswapV3 ID = "uniswap-v3"
	// SushiSwap quotes pair-path constant product at a fixed 0.30% fee.
	SushiSwap ID = "sushiswap"
	// QuickSwap quotes pair-path constant product at a fixed 0.25% fee.
	QuickSwap ID = "quickswap"
)

// Convention describes how a venue expects its fee parameter.
type Convention string

const (
	// ConventionFeeTier venues take the fee tier as an explicit call parameter.
	ConventionFeeTier Convention = "fee-tier"
	// ConventionPairPath venues take a token path; the fee is fixed per venue.
	ConventionPairPath Convention = "pair-path"
)

// Fee tiers accepted by fee-tier venues, in hundredths of a bip.
var feeTiers = map[uint32]bool{100: true, 500: true, 3000: true, 10000: true}

// Descriptor captures a venue's identity and quoting convention.
type Descriptor struct {
	ID         ID
	Convention Convention
	// FeeHundredthsBps is the fixed fee for pair-path venues, expressed in
	// hundredths of a bip to match the fee-tier scale. Zero for fee-tier
	// venues, where the caller supplies the tier.
	FeeHundredthsBps uint32
}

var descriptors = map[ID]Descriptor{
	UniswapV3: {ID: UniswapV3, Convention: ConventionFeeTier},
	SushiSwap: {ID: SushiSwap, Convention: ConventionPairPath, FeeHundredthsBps: 3000},
	QuickSwap: {ID: QuickSwap, Convention: ConventionPairPath, FeeHundredthsBps: 2500},
}

// Describe returns the descriptor for a venue id.
func Describe(id ID) (Descriptor, bool) {
	d, ok := descriptors[id]
	return d, ok
}

// Parse converts a raw string into a known venue ID.
func Parse(s string) (ID, error) {
	id := ID(s)
	if _, ok := descriptors[id]; !ok {
		return "", fmt.Errorf("unknown venue %q", s)
	}
	return id, nil
}

// ValidFeeParam reports whether feeParam is acceptable for this venue.
// Fee-tier venues require one of the known tiers; pair-path venues carry
// their fee themselves and require zero.
func (d Descriptor) ValidFeeParam(feeParam uint32) bool {
	switch d.Convention {
	case ConventionFeeTier:
		return feeTiers[feeParam]
	case ConventionPairPath:
		return feeParam == 0
	default:
		return false
	}
}

// EffectiveFee returns the fee the venue charges for a call with feeParam,
// in hundredths of a bip.
func (d Descriptor) EffectiveFee(feeParam uint32) uint32 {
	if d.Convention == ConventionFeeTier {
		return feeParam
	}
	return d.FeeHundredthsBps
}
