// Package app contains the strategy engine and its port definitions.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// SwapRouter executes one hop against a venue on the trader's behalf.
type SwapRouter interface {
	Swap(ctx context.Context, venueID venues.ID, trader common.Address,
		amountIn, minOut asset.Amount, tokenOut *asset.Asset, feeParam uint32) (asset.Amount, error)
}
