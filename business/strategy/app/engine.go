package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

// Engine runs a strategy's hops sequentially through the router and
// enforces strict round-trip profitability. Deterministic given
// deterministic venue responses.
type Engine struct {
	router SwapRouter
	log    logger.LoggerInterface
}

// NewEngine creates an engine over the given router.
func NewEngine(router SwapRouter, log logger.LoggerInterface) *Engine {
	return &Engine{router: router, log: log}
}

// Execute runs the strategy with principal as the first hop's input,
// feeding each hop's output into the next. After the final hop the
// running amount must strictly exceed the principal, else the call
// fails with NOT_PROFITABLE; zero or negative net is rejected no matter
// where the loan premium is borne.
func (e *Engine) Execute(ctx context.Context, trader common.Address,
	principal asset.Amount, strat *domain.Strategy) (asset.Amount, error) {

	route := strat.Route()
	if !route.BorrowedAsset().ID().Equals(principal.Asset().ID()) {
		return asset.Amount{}, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext(fmt.Sprintf("route starts in %s, principal is %s",
				route.BorrowedAsset().Symbol(), principal.Asset().Symbol())))
	}

	current := principal
	for i, hop := range route {
		out, err := e.router.Swap(ctx, hop.Venue, trader, current, hop.MinOut, hop.TokenOut, hop.FeeParam)
		if err != nil {
			return asset.Amount{}, err
		}
		e.log.Debug(ctx, "hop executed",
			"hop", i,
			"venue", string(hop.Venue),
			"in", current.String(),
			"out", out.String(),
		)
		current = out
	}

	profitable, err := current.GreaterThan(principal)
	if err != nil {
		return asset.Amount{}, apperror.External(apperror.CodeInternalError, "final amount comparison", err)
	}
	if !profitable {
		return asset.Amount{}, apperror.New(apperror.CodeNotProfitable,
			apperror.WithContext(fmt.Sprintf("final %s <= principal %s", current, principal)))
	}
	return current, nil
}
