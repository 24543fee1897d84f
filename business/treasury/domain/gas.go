package domain

import (
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
)

// gasEstimates is a static per-variant lookup, not a simulation. The
// figures bound a loan cycle of the given shape on Polygon.
var gasEstimates = map[strategydomain.Variant]uint64{
	strategydomain.Simple2Step: 300_000,
	strategydomain.Triangular:  420_000,
	strategydomain.MultiHop:    550_000,
}

// defaultGasEstimate covers variants outside the table.
const defaultGasEstimate uint64 = 550_000

// EstimateGas returns the static gas bound for a strategy variant.
func EstimateGas(variant strategydomain.Variant) uint64 {
	if g, ok := gasEstimates[variant]; ok {
		return g
	}
	return defaultGasEstimate
}
