// Package domain defines routes and strategy variants.
package domain

import (
	"fmt"

	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// Hop is one atomic swap within a route.
type Hop struct {
	Venue    venues.ID
	TokenIn  *asset.Asset
	TokenOut *asset.Asset
	FeeParam uint32
	MinOut   asset.Amount
}

// Route is an ordered hop sequence. A valid route chains hop to hop and
// closes the round trip: the first input token equals the last output.
type Route []Hop

// Validate checks the route invariants. Runs before any venue call.
func (r Route) Validate() error {
	if len(r) == 0 {
		return apperror.New(apperror.CodeInvalidRoute,
			apperror.WithMessage("route has no hops"))
	}

	for i, hop := range r {
		if hop.TokenIn == nil || hop.TokenOut == nil {
			return apperror.New(apperror.CodeInvalidRoute,
				apperror.WithContext(fmt.Sprintf("hop %d has nil token", i)))
		}
		if hop.TokenIn.ID().Equals(hop.TokenOut.ID()) {
			return apperror.New(apperror.CodeInvalidRoute,
				apperror.WithContext(fmt.Sprintf("hop %d swaps %s into itself", i, hop.TokenIn.Symbol())))
		}
		if i > 0 && !r[i-1].TokenOut.ID().Equals(hop.TokenIn.ID()) {
			return apperror.New(apperror.CodeInvalidRoute,
				apperror.WithContext(fmt.Sprintf("hop %d input %s does not chain from hop %d output %s",
					i, hop.TokenIn.Symbol(), i-1, r[i-1].TokenOut.Symbol())))
		}
	}

	first, last := r[0], r[len(r)-1]
	if !first.TokenIn.ID().Equals(last.TokenOut.ID()) {
		return apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext(fmt.Sprintf("round trip does not close: %s in, %s out",
				first.TokenIn.Symbol(), last.TokenOut.Symbol())))
	}
	return nil
}

// BorrowedAsset returns the asset the route starts and ends in.
// Only meaningful on a validated route.
func (r Route) BorrowedAsset() *asset.Asset {
	if len(r) == 0 {
		return nil
	}
	return r[0].TokenIn
}
