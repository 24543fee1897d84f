package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// Order is one swap request against a venue. Orders are built per call
// and never persisted.
type Order struct {
	Venue    ID
	Trader   common.Address
	TokenIn  *asset.Asset
	TokenOut *asset.Asset
	AmountIn asset.Amount
	MinOut   asset.Amount
	FeeParam uint32
	// Deadline is a safety bound on the venue call, not a scheduling
	// primitive. Expired orders are rejected by the venue.
	Deadline time.Time
}
