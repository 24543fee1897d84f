// Package app contains the venue router and its port definitions.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// VenueAdapter translates the router's uniform call into one venue's
// convention and executes it against the venue's liquidity.
type VenueAdapter interface {
	// Account is the identity the venue pulls input funds under. The
	// router grants it a spending allowance before Execute.
	Account() common.Address

	// Execute performs the swap and returns the realized output amount.
	// The adapter validates the order's fee parameter against the venue's
	// convention before touching liquidity.
	Execute(ctx context.Context, order domain.Order) (asset.Amount, error)
}
