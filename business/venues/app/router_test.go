package app

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

var trader = common.HexToAddress("0x00000000000000000000000000000000000000AB")

// fakeAdapter returns a fixed output and records the orders it saw.
type fakeAdapter struct {
	account common.Address
	out     asset.Amount
	err     error
	orders  []domain.Order
}

func (f *fakeAdapter) Account() common.Address { return f.account }

func (f *fakeAdapter) Execute(_ context.Context, order domain.Order) (asset.Amount, error) {
	f.orders = append(f.orders, order)
	if f.err != nil {
		return asset.Amount{}, f.err
	}
	return f.out, nil
}

func newTestRouter(uniswap, sushi, quick *fakeAdapter, led *ledger.Ledger) *Router {
	return NewRouter(uniswap, sushi, quick, led, logger.Discard(), 30*time.Second)
}

func usdc(raw int64) asset.Amount { return asset.NewAmountFromInt64(asset.USDC, raw) }
func weth(raw int64) asset.Amount { return asset.NewAmountFromInt64(asset.WETH, raw) }

func TestSwapUnsupportedVenue(t *testing.T) {
	led := ledger.New()
	adapter := &fakeAdapter{account: common.HexToAddress("0x1")}
	router := newTestRouter(adapter, adapter, adapter, led)

	_, err := router.Swap(context.Background(), domain.ID("curve"), trader,
		usdc(100), weth(0), asset.WETH, 0)
	if !apperror.IsCode(err, apperror.CodeUnsupportedVenue) {
		t.Errorf("Swap = %v, want UNSUPPORTED_VENUE", err)
	}
	if len(adapter.orders) != 0 {
		t.Error("adapter called for unknown venue")
	}
}

func TestSwapSlippageExceeded(t *testing.T) {
	led := ledger.New()
	led.Mint(trader, usdc(100))

	adapter := &fakeAdapter{
		account: common.HexToAddress("0x2"),
		out:     weth(49),
	}
	router := newTestRouter(adapter, adapter, adapter, led)

	_, err := router.Swap(context.Background(), domain.UniswapV3, trader,
		usdc(100), weth(50), asset.WETH, 500)
	if !apperror.IsCode(err, apperror.CodeSlippageExceeded) {
		t.Errorf("Swap = %v, want SLIPPAGE_EXCEEDED", err)
	}
}

func TestSwapApprovesVenueBeforeCall(t *testing.T) {
	led := ledger.New()
	led.Mint(trader, usdc(100))

	venueAccount := common.HexToAddress("0x3")
	adapter := &fakeAdapter{account: venueAccount, out: weth(60)}
	router := newTestRouter(adapter, adapter, adapter, led)

	out, err := router.Swap(context.Background(), domain.SushiSwap, trader,
		usdc(100), weth(50), asset.WETH, 0)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if !out.Equals(weth(60)) {
		t.Errorf("Swap = %s, want 60 WETH raw", out)
	}

	// The fake does not consume the allowance, so the grant is observable.
	if got := led.Allowance(trader, venueAccount, asset.USDC); !got.Equals(usdc(100)) {
		t.Errorf("allowance = %s, want 100", got)
	}

	if len(adapter.orders) != 1 {
		t.Fatalf("adapter called %d times, want 1", len(adapter.orders))
	}
	order := adapter.orders[0]
	if order.Venue != domain.SushiSwap || order.Trader != trader {
		t.Errorf("order = %+v, want sushiswap order for trader", order)
	}
	if order.Deadline.IsZero() {
		t.Error("order deadline not set")
	}
}

func TestSwapDispatchesToMatchingAdapter(t *testing.T) {
	led := ledger.New()
	led.Mint(trader, usdc(300))

	uniswap := &fakeAdapter{account: common.HexToAddress("0x10"), out: weth(1)}
	sushi := &fakeAdapter{account: common.HexToAddress("0x20"), out: weth(1)}
	quick := &fakeAdapter{account: common.HexToAddress("0x30"), out: weth(1)}
	router := newTestRouter(uniswap, sushi, quick, led)

	for _, venue := range []domain.ID{domain.UniswapV3, domain.SushiSwap, domain.QuickSwap} {
		if _, err := router.Swap(context.Background(), venue, trader,
			usdc(100), weth(0), asset.WETH, 0); err != nil {
			t.Fatalf("Swap(%s): %v", venue, err)
		}
	}

	if len(uniswap.orders) != 1 || len(sushi.orders) != 1 || len(quick.orders) != 1 {
		t.Errorf("dispatch counts = %d/%d/%d, want 1/1/1",
			len(uniswap.orders), len(sushi.orders), len(quick.orders))
	}
}

func TestSwapWrapsAdapterFailure(t *testing.T) {
	led := ledger.New()
	led.Mint(trader, usdc(100))

	adapter := &fakeAdapter{
		account: common.HexToAddress("0x4"),
		err:     context.DeadlineExceeded,
	}
	router := newTestRouter(adapter, adapter, adapter, led)

	_, err := router.Swap(context.Background(), domain.QuickSwap, trader,
		usdc(100), weth(0), asset.WETH, 0)
	if !apperror.IsCode(err, apperror.CodeVenueCallFailed) {
		t.Errorf("Swap = %v, want VENUE_CALL_FAILED", err)
	}
}

func TestSwapPreservesAdapterAppError(t *testing.T) {
	led := ledger.New()
	led.Mint(trader, usdc(100))

	adapter := &fakeAdapter{
		account: common.HexToAddress("0x5"),
		err:     apperror.New(apperror.CodeInvalidRoute),
	}
	router := newTestRouter(adapter, adapter, adapter, led)

	_, err := router.Swap(context.Background(), domain.UniswapV3, trader,
		usdc(100), weth(0), asset.WETH, 42)
	if !apperror.IsCode(err, apperror.CodeInvalidRoute) {
		t.Errorf("Swap = %v, want INVALID_ROUTE preserved", err)
	}
}
