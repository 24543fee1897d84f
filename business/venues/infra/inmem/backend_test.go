package inmem

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
)

var trader = common.HexToAddress("0x00000000000000000000000000000000000000AA")

func usdcAmount(raw int64) asset.Amount {
	return asset.NewAmountFromInt64(asset.USDC, raw)
}

func wethAmount(raw int64) asset.Amount {
	return asset.NewAmountFromInt64(asset.WETH, raw)
}

func TestConstantProductOut(t *testing.T) {
	tests := []struct {
		name              string
		amountIn          int64
		reserveIn         int64
		reserveOut        int64
		feeHundredthsBps  uint32
		want              int64
	}{
		{"thirty_bps_fee", 1000, 1_000_000, 1_000_000, 3000, 996},
		{"no_fee", 1000, 1_000_000, 1_000_000, 0, 999},
		{"asymmetric_reserves", 1000, 1_000_000, 2_000_000, 0, 1998},
		{"tiny_input_rounds_down", 1, 1_000_000, 1_000_000, 3000, 0},
		{"zero_input", 0, 1_000_000, 1_000_000, 3000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := constantProductOut(
				big.NewInt(tt.amountIn),
				big.NewInt(tt.reserveIn),
				big.NewInt(tt.reserveOut),
				tt.feeHundredthsBps,
			)
			if got.Int64() != tt.want {
				t.Errorf("constantProductOut = %d, want %d", got.Int64(), tt.want)
			}
		})
	}
}

func TestExecuteSettlesAgainstLedger(t *testing.T) {
	led := ledger.New()
	backend := NewBackend(led)

	pool := backend.AddPool(domain.SushiSwap, usdcAmount(1_000_000), wethAmount(1_000_000), 0)
	led.Mint(trader, usdcAmount(10_000))
	led.Approve(trader, backend.VenueAccount(domain.SushiSwap), usdcAmount(10_000))

	order := domain.Order{
		Venue:    domain.SushiSwap,
		Trader:   trader,
		TokenIn:  asset.USDC,
		TokenOut: asset.WETH,
		AmountIn: usdcAmount(10_000),
		Deadline: time.Now().Add(time.Minute),
	}

	out, err := backend.Execute(context.Background(), order, 3000)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !out.IsPositive() {
		t.Fatalf("Execute returned %s, want positive output", out)
	}

	// Trader paid the full input and received the output.
	if got := led.BalanceOf(trader, asset.USDC); !got.IsZero() {
		t.Errorf("trader USDC = %s, want 0", got)
	}
	if got := led.BalanceOf(trader, asset.WETH); !got.Equals(out) {
		t.Errorf("trader WETH = %s, want %s", got, out)
	}

	// Pool reserves moved the other way.
	if got := led.BalanceOf(pool, asset.USDC); got.Raw().Int64() != 1_010_000 {
		t.Errorf("pool USDC = %s, want 1010000", got)
	}

	// The allowance was consumed.
	if got := led.Allowance(trader, backend.VenueAccount(domain.SushiSwap), asset.USDC); !got.IsZero() {
		t.Errorf("remaining allowance = %s, want 0", got)
	}
}

func TestExecuteRequiresAllowance(t *testing.T) {
	led := ledger.New()
	backend := NewBackend(led)

	backend.AddPool(domain.QuickSwap, usdcAmount(1_000_000), wethAmount(1_000_000), 0)
	led.Mint(trader, usdcAmount(5_000))
	// No Approve call.

	order := domain.Order{
		Venue:    domain.QuickSwap,
		Trader:   trader,
		TokenIn:  asset.USDC,
		TokenOut: asset.WETH,
		AmountIn: usdcAmount(5_000),
		Deadline: time.Now().Add(time.Minute),
	}

	_, err := backend.Execute(context.Background(), order, 2500)
	if !errors.Is(err, ledger.ErrInsufficientAllowance) {
		t.Errorf("Execute without allowance = %v, want ErrInsufficientAllowance", err)
	}
}

func TestExecuteUnknownPool(t *testing.T) {
	led := ledger.New()
	backend := NewBackend(led)

	order := domain.Order{
		Venue:    domain.UniswapV3,
		Trader:   trader,
		TokenIn:  asset.USDC,
		TokenOut: asset.WETH,
		AmountIn: usdcAmount(100),
		FeeParam: 500,
		Deadline: time.Now().Add(time.Minute),
	}

	_, err := backend.Execute(context.Background(), order, 500)
	if !errors.Is(err, ErrNoPool) {
		t.Errorf("Execute = %v, want ErrNoPool", err)
	}
}

func TestExecuteExpiredDeadline(t *testing.T) {
	led := ledger.New()
	backend := NewBackend(led)
	backend.AddPool(domain.SushiSwap, usdcAmount(1_000_000), wethAmount(1_000_000), 0)

	order := domain.Order{
		Venue:    domain.SushiSwap,
		Trader:   trader,
		TokenIn:  asset.USDC,
		TokenOut: asset.WETH,
		AmountIn: usdcAmount(100),
		Deadline: time.Now().Add(-time.Second),
	}

	_, err := backend.Execute(context.Background(), order, 3000)
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Errorf("Execute = %v, want ErrDeadlineExceeded", err)
	}
}

func TestPoolKeyIsDirectionless(t *testing.T) {
	led := ledger.New()
	backend := NewBackend(led)
	backend.AddPool(domain.SushiSwap, usdcAmount(1_000_000), wethAmount(1_000_000), 0)

	led.Mint(trader, wethAmount(1_000))
	led.Approve(trader, backend.VenueAccount(domain.SushiSwap), wethAmount(1_000))

	// Swap in the reverse direction of how the pool was seeded.
	order := domain.Order{
		Venue:    domain.SushiSwap,
		Trader:   trader,
		TokenIn:  asset.WETH,
		TokenOut: asset.USDC,
		AmountIn: wethAmount(1_000),
		Deadline: time.Now().Add(time.Minute),
	}

	out, err := backend.Execute(context.Background(), order, 3000)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !out.IsPositive() {
		t.Errorf("reverse-direction swap returned %s, want positive output", out)
	}
}
