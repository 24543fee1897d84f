package app

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	loandomain "github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ratelimit"
)

var identity = common.HexToAddress("0x0000000000000000000000000000000000000042")

type executorSpy struct {
	caller common.Address
	amount asset.Amount
	strat  *strategydomain.Strategy
	calls  int
	err    error
}

func (e *executorSpy) ExecuteArbitrage(_ context.Context, caller common.Address,
	amount asset.Amount, strat *strategydomain.Strategy) (loandomain.ExecutionRecord, error) {

	e.calls++
	e.caller = caller
	e.amount = amount
	e.strat = strat
	return loandomain.ExecutionRecord{Committed: e.err == nil}, e.err
}

func newTestService(exec *executorSpy) *Service {
	return NewService(identity, exec, asset.DefaultRegistry(), asset.ChainIDPolygon,
		ratelimit.New(600), logger.Discard())
}

const validSubmission = `{
	"asset": "USDC",
	"amount": "100",
	"variant": "simple-2step",
	"hops": [
		{"venue": "uniswap-v3", "token_in": "USDC", "token_out": "WETH", "fee_param": 3000},
		{"venue": "sushiswap", "token_in": "WETH", "token_out": "USDC", "min_out": "100.5"}
	]
}`

func TestSubmitDispatchesValidRoute(t *testing.T) {
	exec := &executorSpy{}
	svc := newTestService(exec)

	rec, err := svc.Submit(context.Background(), []byte(validSubmission))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !rec.Committed {
		t.Error("record not committed")
	}
	if exec.calls != 1 {
		t.Fatalf("executor called %d times, want 1", exec.calls)
	}
	if exec.caller != identity {
		t.Errorf("caller = %s, want the intake identity", exec.caller.Hex())
	}
	if !exec.amount.Equals(asset.NewAmountFromInt64(asset.USDC, 100_000_000)) {
		t.Errorf("amount = %s, want 100 USDC", exec.amount)
	}
	if exec.strat.Variant() != strategydomain.Simple2Step {
		t.Errorf("variant = %s, want simple-2step", exec.strat.Variant())
	}
	route := exec.strat.Route()
	if len(route) != 2 || route[0].FeeParam != 3000 {
		t.Fatalf("route = %+v, want 2 hops with fee tier 3000", route)
	}
	// min_out "100.5" in USDC display units.
	if !route[1].MinOut.Equals(asset.NewAmountFromInt64(asset.USDC, 100_500_000)) {
		t.Errorf("hop 1 minOut = %s, want 100.5 USDC", route[1].MinOut)
	}
}

func TestSubmitRejectsBeforeDispatch(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", `not json`},
		{"unknown_asset", `{"asset":"DOGE","amount":"1","variant":"simple-2step","hops":[{"venue":"uniswap-v3","token_in":"DOGE","token_out":"WETH","fee_param":500},{"venue":"sushiswap","token_in":"WETH","token_out":"DOGE"}]}`},
		{"unknown_venue", `{"asset":"USDC","amount":"1","variant":"simple-2step","hops":[{"venue":"balancer","token_in":"USDC","token_out":"WETH"},{"venue":"sushiswap","token_in":"WETH","token_out":"USDC"}]}`},
		{"unknown_variant", `{"asset":"USDC","amount":"1","variant":"quadratic","hops":[{"venue":"uniswap-v3","token_in":"USDC","token_out":"WETH","fee_param":500},{"venue":"sushiswap","token_in":"WETH","token_out":"USDC"}]}`},
		{"bad_amount", `{"asset":"USDC","amount":"one hundred","variant":"simple-2step","hops":[{"venue":"uniswap-v3","token_in":"USDC","token_out":"WETH","fee_param":500},{"venue":"sushiswap","token_in":"WETH","token_out":"USDC"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &executorSpy{}
			svc := newTestService(exec)

			_, err := svc.Submit(context.Background(), []byte(tt.data))
			if !apperror.IsCode(err, apperror.CodeInvalidSubmission) {
				t.Fatalf("error = %v, want INVALID_SUBMISSION", err)
			}
			if exec.calls != 0 {
				t.Errorf("executor called %d times, want 0", exec.calls)
			}
		})
	}
}

func TestSubmitRejectsSemanticallyBrokenRoute(t *testing.T) {
	// Round trip that never returns to the borrowed asset.
	open := `{"asset":"USDC","amount":"1","variant":"simple-2step","hops":[{"venue":"uniswap-v3","token_in":"USDC","token_out":"WETH","fee_param":500},{"venue":"sushiswap","token_in":"WETH","token_out":"WMATIC"}]}`

	exec := &executorSpy{}
	svc := newTestService(exec)

	_, err := svc.Submit(context.Background(), []byte(open))
	if !apperror.IsCode(err, apperror.CodeInvalidRoute) {
		t.Fatalf("error = %v, want INVALID_ROUTE", err)
	}
	if exec.calls != 0 {
		t.Errorf("executor called %d times, want 0", exec.calls)
	}
}

func TestSubmitHonorsContextDuringRateLimit(t *testing.T) {
	exec := &executorSpy{}
	svc := NewService(identity, exec, asset.DefaultRegistry(), asset.ChainIDPolygon,
		ratelimit.NewWithBurst(0.001, 1), logger.Discard())

	// Consume the single burst token.
	if _, err := svc.Submit(context.Background(), []byte(validSubmission)); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Submit(ctx, []byte(validSubmission)); err == nil {
		t.Fatal("Submit() with cancelled context succeeded, want error")
	}
	if exec.calls != 1 {
		t.Errorf("executor called %d times, want 1", exec.calls)
	}
}
