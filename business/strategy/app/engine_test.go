package app

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

var trader = common.HexToAddress("0x00000000000000000000000000000000000000AC")

// scriptedRouter returns pre-programmed outputs hop by hop.
type scriptedRouter struct {
	outputs []asset.Amount
	errAt   int // hop index that fails, -1 for none
	err     error
	calls   int
}

func (r *scriptedRouter) Swap(_ context.Context, _ venues.ID, _ common.Address,
	_, _ asset.Amount, _ *asset.Asset, _ uint32) (asset.Amount, error) {
	i := r.calls
	r.calls++
	if r.errAt >= 0 && i == r.errAt {
		return asset.Amount{}, r.err
	}
	return r.outputs[i], nil
}

func usdc(raw int64) asset.Amount { return asset.NewAmountFromInt64(asset.USDC, raw) }
func weth(raw int64) asset.Amount { return asset.NewAmountFromInt64(asset.WETH, raw) }

func twoStep(t *testing.T) *domain.Strategy {
	t.Helper()
	strat, err := domain.NewStrategy(domain.Simple2Step, domain.Route{
		{Venue: venues.UniswapV3, TokenIn: asset.USDC, TokenOut: asset.WETH, FeeParam: 3000, MinOut: asset.Zero(asset.WETH)},
		{Venue: venues.SushiSwap, TokenIn: asset.WETH, TokenOut: asset.USDC, MinOut: asset.Zero(asset.USDC)},
	})
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}
	return strat
}

func TestExecuteComposesHopOutputs(t *testing.T) {
	router := &scriptedRouter{
		outputs: []asset.Amount{weth(105), usdc(101)},
		errAt:   -1,
	}
	engine := NewEngine(router, logger.Discard())

	final, err := engine.Execute(context.Background(), trader, usdc(100), twoStep(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !final.Equals(usdc(101)) {
		t.Errorf("final = %s, want 101 USDC raw", final)
	}
	if router.calls != 2 {
		t.Errorf("router called %d times, want 2", router.calls)
	}
}

func TestExecuteNotProfitable(t *testing.T) {
	tests := []struct {
		name  string
		final int64
	}{
		{"break_even", 100},
		{"loss", 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := &scriptedRouter{
				outputs: []asset.Amount{weth(105), usdc(tt.final)},
				errAt:   -1,
			}
			engine := NewEngine(router, logger.Discard())

			_, err := engine.Execute(context.Background(), trader, usdc(100), twoStep(t))
			if !apperror.IsCode(err, apperror.CodeNotProfitable) {
				t.Errorf("Execute = %v, want NOT_PROFITABLE", err)
			}
		})
	}
}

func TestExecuteStopsOnHopFailure(t *testing.T) {
	router := &scriptedRouter{
		outputs: []asset.Amount{weth(105), usdc(101)},
		errAt:   0,
		err:     apperror.New(apperror.CodeSlippageExceeded),
	}
	engine := NewEngine(router, logger.Discard())

	_, err := engine.Execute(context.Background(), trader, usdc(100), twoStep(t))
	if !apperror.IsCode(err, apperror.CodeSlippageExceeded) {
		t.Fatalf("Execute = %v, want SLIPPAGE_EXCEEDED", err)
	}
	if router.calls != 1 {
		t.Errorf("router called %d times after hop failure, want 1", router.calls)
	}
}

func TestExecutePrincipalMustMatchRoute(t *testing.T) {
	router := &scriptedRouter{errAt: -1}
	engine := NewEngine(router, logger.Discard())

	// Principal denominated in WETH against a USDC route.
	_, err := engine.Execute(context.Background(), trader, weth(100), twoStep(t))
	if !apperror.IsCode(err, apperror.CodeInvalidRoute) {
		t.Fatalf("Execute = %v, want INVALID_ROUTE", err)
	}
	if router.calls != 0 {
		t.Errorf("router called %d times before validation, want 0", router.calls)
	}
}
