package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

// Router dispatches uniform swap calls to the closed set of venue
// adapters. One synchronous attempt per call; no retry.
type Router struct {
	uniswap VenueAdapter
	sushi   VenueAdapter
	quick   VenueAdapter

	ledger   *ledger.Ledger
	log      logger.LoggerInterface
	deadline time.Duration

	swapDuration metric.Float64Histogram
	swapCount    metric.Int64Counter
}

// NewRouter creates a router over the three venue adapters.
func NewRouter(uniswap, sushi, quick VenueAdapter, led *ledger.Ledger, log logger.LoggerInterface, deadline time.Duration) *Router {
	meter := otel.Meter("venues.router")
	swapDuration, _ := meter.Float64Histogram("venue_swap_duration_seconds",
		metric.WithDescription("Duration of a single venue swap"))
	swapCount, _ := meter.Int64Counter("venue_swaps_total",
		metric.WithDescription("Venue swaps attempted, by venue and outcome"))

	return &Router{
		uniswap:      uniswap,
		sushi:        sushi,
		quick:        quick,
		ledger:       led,
		log:          log,
		deadline:     deadline,
		swapDuration: swapDuration,
		swapCount:    swapCount,
	}
}

// Swap executes one hop: grants the venue a spending allowance of
// amountIn, invokes the adapter, and enforces minOut on the realized
// output. Fails with UNSUPPORTED_VENUE for unknown ids and
// SLIPPAGE_EXCEEDED when output lands below minOut.
func (r *Router) Swap(ctx context.Context, venueID domain.ID, trader common.Address,
	amountIn, minOut asset.Amount, tokenOut *asset.Asset, feeParam uint32) (asset.Amount, error) {

	var adapter VenueAdapter
	switch venueID {
	case domain.UniswapV3:
		adapter = r.uniswap
	case domain.SushiSwap:
		adapter = r.sushi
	case domain.QuickSwap:
		adapter = r.quick
	default:
		return asset.Amount{}, apperror.New(apperror.CodeUnsupportedVenue,
			apperror.WithContext(string(venueID)))
	}

	order := domain.Order{
		Venue:    venueID,
		Trader:   trader,
		TokenIn:  amountIn.Asset(),
		TokenOut: tokenOut,
		AmountIn: amountIn,
		MinOut:   minOut,
		FeeParam: feeParam,
		Deadline: time.Now().Add(r.deadline),
	}

	// Pre-authorize the venue to pull the input amount.
	r.ledger.Approve(trader, adapter.Account(), amountIn)

	start := time.Now()
	out, err := adapter.Execute(ctx, order)
	r.record(ctx, venueID, start, err)
	if err != nil {
		return asset.Amount{}, apperror.Wrap(err, apperror.CodeVenueCallFailed, string(venueID))
	}

	if below, cmpErr := out.LessThan(minOut); cmpErr != nil {
		return asset.Amount{}, apperror.External(apperror.CodeVenueCallFailed, string(venueID), cmpErr)
	} else if below {
		return asset.Amount{}, apperror.New(apperror.CodeSlippageExceeded,
			apperror.WithContext(out.String()+" < "+minOut.String()))
	}

	r.log.Debug(ctx, "swap executed",
		"venue", string(venueID),
		"in", amountIn.String(),
		"out", out.String(),
	)
	return out, nil
}

func (r *Router) record(ctx context.Context, venueID domain.ID, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperror.GetCode(err))
	}
	attrs := metric.WithAttributes(
		attribute.String("venue", string(venueID)),
		attribute.String("outcome", outcome),
	)
	r.swapDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	r.swapCount.Add(ctx, 1, attrs)
}
