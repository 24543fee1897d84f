package app

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	accessdomain "github.com/Anuj0x/AaveFlashToolkit/business/access/domain"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

var (
	owner        = common.HexToAddress("0x0000000000000000000000000000000000000001")
	engineAcct   = common.HexToAddress("0x0000000000000000000000000000000000000002")
	facilityAcct = common.HexToAddress("0x0000000000000000000000000000000000000003")
	botCaller    = common.HexToAddress("0x0000000000000000000000000000000000000004")
	stranger     = common.HexToAddress("0x00000000000000000000000000000000000000FF")
)

func usdc(raw int64) asset.Amount {
	return asset.NewAmountFromInt64(asset.USDC, raw)
}

// testFacility reproduces the in-process facility's settlement flow:
// transfer out, exactly one callback, pull principal plus premium back
// under the borrower's allowance.
type testFacility struct {
	account common.Address
	feeBps  int64
	ledger  *ledger.Ledger
	calls   int
}

func (f *testFacility) RequestLoan(ctx context.Context, borrower common.Address,
	amount asset.Amount, params []byte, handler CallbackHandler) error {

	f.calls++
	premium := amount.MulDivBps(f.feeBps)
	if err := f.ledger.Transfer(f.account, borrower, amount); err != nil {
		return apperror.External(apperror.CodeFacilityCallFailed, "issue loan", err)
	}
	if err := handler.OnLoanCallback(ctx, f.account, amount, premium, borrower, params); err != nil {
		return apperror.Wrap(err, apperror.CodeFacilityCallFailed, "loan callback")
	}
	if err := f.ledger.TransferFrom(f.account, borrower, f.account, amount.MustAdd(premium)); err != nil {
		return apperror.External(apperror.CodeFacilityCallFailed, "settle repayment", err)
	}
	return nil
}

// scriptedEngine returns a fixed final amount, optionally mutating the
// ledger the way a real trade sequence would.
type scriptedEngine struct {
	final  asset.Amount
	err    error
	effect func()
	calls  int
}

func (e *scriptedEngine) Execute(_ context.Context, _ common.Address,
	_ asset.Amount, _ *strategydomain.Strategy) (asset.Amount, error) {

	e.calls++
	if e.err != nil {
		return asset.Amount{}, e.err
	}
	if e.effect != nil {
		e.effect()
	}
	return e.final, nil
}

type statsSpy struct {
	profits []asset.Amount
}

func (s *statsSpy) RecordExecution(profit asset.Amount) {
	s.profits = append(s.profits, profit)
}

type sinkSpy struct {
	records []domain.ExecutionRecord
}

func (s *sinkSpy) Notify(_ context.Context, rec domain.ExecutionRecord) {
	s.records = append(s.records, rec)
}

func roundTripStrategy(t *testing.T) *strategydomain.Strategy {
	t.Helper()
	strat, err := strategydomain.NewStrategy(strategydomain.Simple2Step, strategydomain.Route{
		{Venue: venues.UniswapV3, TokenIn: asset.USDC, TokenOut: asset.WETH, FeeParam: 3000, MinOut: asset.Zero(asset.WETH)},
		{Venue: venues.SushiSwap, TokenIn: asset.WETH, TokenOut: asset.USDC, MinOut: asset.Zero(asset.USDC)},
	})
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}
	return strat
}

type fixture struct {
	orch     *Orchestrator
	ledger   *ledger.Ledger
	gate     *accessdomain.Gate
	facility *testFacility
	engine   *scriptedEngine
	stats    *statsSpy
	sink     *sinkSpy
}

func newFixture(t *testing.T, engine *scriptedEngine) *fixture {
	t.Helper()
	led := ledger.New()
	gate := accessdomain.NewGate(owner)
	if err := gate.SetAuthorizedCaller(owner, botCaller, true); err != nil {
		t.Fatalf("SetAuthorizedCaller: %v", err)
	}

	codec, err := NewCodec(asset.DefaultRegistry(), asset.ChainIDPolygon)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	facility := &testFacility{account: facilityAcct, feeBps: 9, ledger: led}
	led.Mint(facilityAcct, usdc(1_000_000_000)) // 1000 USDC of lendable liquidity

	stats := &statsSpy{}
	sink := &sinkSpy{}
	orch := NewOrchestrator(engineAcct, facilityAcct, gate, led, codec,
		facility, engine, stats, []RecordSink{sink}, logger.Discard())

	return &fixture{orch: orch, ledger: led, gate: gate, facility: facility,
		engine: engine, stats: stats, sink: sink}
}

func TestExecuteArbitrageCommitsProfitableCycle(t *testing.T) {
	// Borrow 100 USDC, trade 100 -> 105 WETH -> 101 USDC.
	// Premium at 9 bps is 0.09 USDC; recorded profit is 1 USDC.
	engine := &scriptedEngine{final: usdc(101_000_000)}
	f := newFixture(t, engine)
	engine.effect = func() { f.ledger.Mint(engineAcct, usdc(1_000_000)) } // net trade gain

	rec, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
		usdc(100_000_000), roundTripStrategy(t))
	if err != nil {
		t.Fatalf("ExecuteArbitrage() error = %v", err)
	}

	if !rec.Committed {
		t.Error("record not committed")
	}
	if rec.ProfitRaw != "1000000" {
		t.Errorf("profit = %s, want 1000000 (1 USDC)", rec.ProfitRaw)
	}
	if rec.PremiumRaw != "90000" {
		t.Errorf("premium = %s, want 90000 (0.09 USDC)", rec.PremiumRaw)
	}
	if rec.FinalAmountRaw != "101000000" {
		t.Errorf("final = %s, want 101000000", rec.FinalAmountRaw)
	}

	if len(f.stats.profits) != 1 || !f.stats.profits[0].Equals(usdc(1_000_000)) {
		t.Errorf("stats recorded %v, want one profit of 1 USDC", f.stats.profits)
	}
	if len(f.sink.records) != 1 {
		t.Fatalf("sink received %d records, want 1", len(f.sink.records))
	}

	// The engine keeps final minus amountOwed; the facility earned the premium.
	if got := f.ledger.BalanceOf(engineAcct, asset.USDC); !got.Equals(usdc(910_000)) {
		t.Errorf("engine balance = %s, want 0.91 USDC", got)
	}
	if got := f.ledger.BalanceOf(facilityAcct, asset.USDC); !got.Equals(usdc(1_000_090_000)) {
		t.Errorf("facility balance = %s, want 1000.09 USDC", got)
	}
}

func TestExecuteArbitrageUnauthorizedCallerMutatesNothing(t *testing.T) {
	engine := &scriptedEngine{final: usdc(101)}
	f := newFixture(t, engine)

	_, err := f.orch.ExecuteArbitrage(context.Background(), stranger,
		usdc(100), roundTripStrategy(t))
	if !apperror.IsCode(err, apperror.CodeNotAuthorized) {
		t.Fatalf("error = %v, want NOT_AUTHORIZED", err)
	}
	if f.facility.calls != 0 || f.engine.calls != 0 {
		t.Errorf("facility/engine called %d/%d times, want 0/0", f.facility.calls, f.engine.calls)
	}
	if len(f.sink.records) != 0 {
		t.Errorf("sink received %d records, want 0", len(f.sink.records))
	}
}

func TestExecuteArbitragePaused(t *testing.T) {
	f := newFixture(t, &scriptedEngine{final: usdc(101)})
	if err := f.gate.Pause(owner); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	_, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
		usdc(100), roundTripStrategy(t))
	if !apperror.IsCode(err, apperror.CodePaused) {
		t.Fatalf("error = %v, want PAUSED", err)
	}
}

func TestExecuteArbitrageRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t, &scriptedEngine{final: usdc(101)})

	_, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
		usdc(0), roundTripStrategy(t))
	if !apperror.IsCode(err, apperror.CodeInvalidAmount) {
		t.Fatalf("error = %v, want INVALID_AMOUNT", err)
	}
}

// reentrantEngine attempts a nested cycle from inside the callback.
type reentrantEngine struct {
	orch   *Orchestrator
	strat  *strategydomain.Strategy
	nested error
	final  asset.Amount
}

func (e *reentrantEngine) Execute(ctx context.Context, _ common.Address,
	_ asset.Amount, _ *strategydomain.Strategy) (asset.Amount, error) {

	_, e.nested = e.orch.ExecuteArbitrage(ctx, botCaller, usdc(50_000_000), e.strat)
	return e.final, nil
}

func TestExecuteArbitrageBlocksReentrancy(t *testing.T) {
	engine := &scriptedEngine{final: usdc(101)}
	f := newFixture(t, engine)

	strat := roundTripStrategy(t)
	reentrant := &reentrantEngine{orch: f.orch, strat: strat, final: usdc(150_000_000)}
	if err := f.orch.UpdateStrategyEngine(owner, reentrant); err != nil {
		t.Fatalf("UpdateStrategyEngine: %v", err)
	}
	f.ledger.Mint(engineAcct, usdc(100_000_000)) // cover repayment after the fake gain

	if _, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
		usdc(100_000_000), strat); err != nil {
		t.Fatalf("outer cycle error = %v", err)
	}
	if !apperror.IsCode(reentrant.nested, apperror.CodeReentrancyDetected) {
		t.Fatalf("nested error = %v, want REENTRANCY_DETECTED", reentrant.nested)
	}
}

func TestExecuteArbitrageInsufficientRepaymentRollsBack(t *testing.T) {
	// Final covers the principal but not the premium: abort and restore
	// every balance bit-exactly.
	engine := &scriptedEngine{final: usdc(100_050_000)} // owed is 100.09
	f := newFixture(t, engine)
	f.ledger.Mint(engineAcct, usdc(7_000_000))

	before := f.ledger.BalanceOf(engineAcct, asset.USDC)
	beforeFacility := f.ledger.BalanceOf(facilityAcct, asset.USDC)

	rec, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
		usdc(100_000_000), roundTripStrategy(t))
	if !apperror.IsCode(err, apperror.CodeInsufficientRepayment) {
		t.Fatalf("error = %v, want INSUFFICIENT_REPAYMENT", err)
	}

	if got := f.ledger.BalanceOf(engineAcct, asset.USDC); !got.Equals(before) {
		t.Errorf("engine balance = %s, want restored %s", got, before)
	}
	if got := f.ledger.BalanceOf(facilityAcct, asset.USDC); !got.Equals(beforeFacility) {
		t.Errorf("facility balance = %s, want restored %s", got, beforeFacility)
	}
	if got := f.ledger.Allowance(engineAcct, facilityAcct, asset.USDC); !got.IsZero() {
		t.Errorf("residual allowance = %s, want 0", got)
	}

	if rec.Committed {
		t.Error("aborted record marked committed")
	}
	if rec.ErrorCode != string(apperror.CodeInsufficientRepayment) {
		t.Errorf("record error code = %s, want INSUFFICIENT_REPAYMENT", rec.ErrorCode)
	}
	if len(f.stats.profits) != 0 {
		t.Errorf("stats recorded %d profits on abort, want 0", len(f.stats.profits))
	}
	if len(f.sink.records) != 1 {
		t.Errorf("sink received %d records, want 1 abort record", len(f.sink.records))
	}
}

func TestExecuteArbitrageStrategyFailureRollsBack(t *testing.T) {
	engine := &scriptedEngine{err: apperror.New(apperror.CodeNotProfitable)}
	f := newFixture(t, engine)

	before := f.ledger.BalanceOf(facilityAcct, asset.USDC)

	rec, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
		usdc(100_000_000), roundTripStrategy(t))
	if !apperror.IsCode(err, apperror.CodeNotProfitable) {
		t.Fatalf("error = %v, want NOT_PROFITABLE", err)
	}
	if rec.ErrorCode != string(apperror.CodeNotProfitable) {
		t.Errorf("record error code = %s, want NOT_PROFITABLE", rec.ErrorCode)
	}
	if got := f.ledger.BalanceOf(facilityAcct, asset.USDC); !got.Equals(before) {
		t.Errorf("facility balance = %s, want restored %s", got, before)
	}
	if got := f.ledger.BalanceOf(engineAcct, asset.USDC); !got.IsZero() {
		t.Errorf("engine balance = %s, want 0 after rollback", got)
	}
}

func TestOnLoanCallbackRejectsWhenNoCycleActive(t *testing.T) {
	f := newFixture(t, &scriptedEngine{final: usdc(101)})

	err := f.orch.OnLoanCallback(context.Background(), facilityAcct,
		usdc(100), usdc(1), engineAcct, nil)
	if !apperror.IsCode(err, apperror.CodeInvalidCallback) {
		t.Fatalf("error = %v, want INVALID_CALLBACK", err)
	}
}

// hijackFacility invokes the callback with a forged identity instead of
// settling a real loan.
type hijackFacility struct {
	origin    common.Address
	initiator common.Address
	got       error
}

func (h *hijackFacility) RequestLoan(ctx context.Context, _ common.Address,
	amount asset.Amount, params []byte, handler CallbackHandler) error {

	h.got = handler.OnLoanCallback(ctx, h.origin, amount, amount.PercentOf(0), h.initiator, params)
	return h.got
}

func TestOnLoanCallbackVerifiesOriginAndInitiator(t *testing.T) {
	tests := []struct {
		name      string
		origin    common.Address
		initiator common.Address
		wantCode  apperror.Code
	}{
		{"forged_origin", stranger, engineAcct, apperror.CodeInvalidCallback},
		{"forged_initiator", facilityAcct, stranger, apperror.CodeInvalidInitiator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &scriptedEngine{final: usdc(101)}
			f := newFixture(t, engine)

			hijack := &hijackFacility{origin: tt.origin, initiator: tt.initiator}
			f.orch.facilitySvc = hijack

			_, err := f.orch.ExecuteArbitrage(context.Background(), botCaller,
				usdc(100_000_000), roundTripStrategy(t))
			if !apperror.IsCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want %s", err, tt.wantCode)
			}
			if f.engine.calls != 0 {
				t.Errorf("engine called %d times, want 0", f.engine.calls)
			}
		})
	}
}

func TestUpdateStrategyEngineOwnerOnly(t *testing.T) {
	f := newFixture(t, &scriptedEngine{final: usdc(101)})

	err := f.orch.UpdateStrategyEngine(stranger, &scriptedEngine{})
	if !apperror.IsCode(err, apperror.CodeNotOwner) {
		t.Fatalf("error = %v, want NOT_OWNER", err)
	}
	if err := f.orch.UpdateStrategyEngine(owner, &scriptedEngine{}); err != nil {
		t.Fatalf("owner swap error = %v", err)
	}
}
