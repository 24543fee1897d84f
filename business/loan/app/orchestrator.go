package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	accessdomain "github.com/Anuj0x/AaveFlashToolkit/business/access/domain"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan/domain"
	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apm"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
)

// Orchestrator drives the borrow/execute/repay cycle. One unit of work
// at a time; any failure anywhere rolls the ledger back to the entry
// checkpoint and propagates.
type Orchestrator struct {
	account  common.Address // self: borrower, trader and callback target
	facility common.Address // expected callback origin

	gate        *accessdomain.Gate
	ledger      *ledger.Ledger
	codec       *Codec
	facilitySvc CreditFacility
	stats       StatsRecorder
	sinks       []RecordSink
	log         logger.LoggerInterface
	tracer      apm.Tracer

	engineMu sync.RWMutex
	engine   StrategyExecutor

	active atomic.Bool
	cycle  *domain.ExecutionContext

	cyclesTotal   metric.Int64Counter
	cycleDuration metric.Float64Histogram
	profitTotal   metric.Float64Counter
}

// NewOrchestrator wires the orchestrator. account is the engine's own
// identity; facility is the credit facility's identity, used to verify
// callback origin.
func NewOrchestrator(account, facility common.Address, gate *accessdomain.Gate,
	led *ledger.Ledger, codec *Codec, facilitySvc CreditFacility,
	engine StrategyExecutor, stats StatsRecorder, sinks []RecordSink,
	log logger.LoggerInterface) *Orchestrator {

	meter := otel.Meter("loan.orchestrator")
	cyclesTotal, _ := meter.Int64Counter("arb_cycles_total",
		metric.WithDescription("Arbitrage cycles, by variant and outcome"))
	cycleDuration, _ := meter.Float64Histogram("arb_cycle_duration_seconds",
		metric.WithDescription("End-to-end cycle duration"))
	profitTotal, _ := meter.Float64Counter("arb_profit_total",
		metric.WithDescription("Cumulative recorded profit, display units"))

	return &Orchestrator{
		account:       account,
		facility:      facility,
		gate:          gate,
		ledger:        led,
		codec:         codec,
		facilitySvc:   facilitySvc,
		engine:        engine,
		stats:         stats,
		sinks:         sinks,
		log:           log,
		tracer:        apm.NewTracer("loan.orchestrator"),
		cyclesTotal:   cyclesTotal,
		cycleDuration: cycleDuration,
		profitTotal:   profitTotal,
	}
}

// Account returns the orchestrator's own identity.
func (o *Orchestrator) Account() common.Address {
	return o.account
}

// UpdateStrategyEngine swaps the strategy engine reference. Owner-only,
// rejected while a cycle is active.
func (o *Orchestrator) UpdateStrategyEngine(caller common.Address, engine StrategyExecutor) error {
	if err := o.gate.RequireOwner(caller); err != nil {
		return err
	}
	if o.active.Load() {
		return apperror.New(apperror.CodeReentrancyDetected,
			apperror.WithMessage("cannot swap engine during an active cycle"))
	}
	o.engineMu.Lock()
	o.engine = engine
	o.engineMu.Unlock()
	return nil
}

func (o *Orchestrator) currentEngine() StrategyExecutor {
	o.engineMu.RLock()
	defer o.engineMu.RUnlock()
	return o.engine
}

// ExecuteArbitrage runs one unit of work: authorization, loan request,
// strategy execution inside the callback, repayment, commit. Stats and
// balances mutate only on the success path; every failure rolls back.
func (o *Orchestrator) ExecuteArbitrage(ctx context.Context, caller common.Address,
	amount asset.Amount, strat *strategydomain.Strategy) (domain.ExecutionRecord, error) {

	if err := o.gate.RequireCanExecute(caller); err != nil {
		return domain.ExecutionRecord{}, err
	}
	if !amount.IsPositive() {
		return domain.ExecutionRecord{}, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContext(amount.String()))
	}

	if !o.active.CompareAndSwap(false, true) {
		return domain.ExecutionRecord{}, apperror.New(apperror.CodeReentrancyDetected)
	}
	defer o.active.Store(false)

	ctx, span := o.tracer.StartSpanFromContext(ctx, "loan.executeArbitrage")
	defer span.End()
	span.SetAttributes(
		attribute.String("asset", amount.Asset().Symbol()),
		attribute.String("variant", strat.Variant().String()),
		attribute.Int("hops", len(strat.Route())),
	)

	start := time.Now()
	checkpoint := o.ledger.Checkpoint()
	o.cycle = &domain.ExecutionContext{State: domain.StateBorrowing, Borrowed: amount}
	defer func() { o.cycle = nil }()

	params, err := o.codec.Encode(strat)
	if err != nil {
		return o.abort(ctx, span, checkpoint, start, amount, strat, err)
	}

	o.log.Info(ctx, "cycle started",
		"asset", amount.Asset().Symbol(),
		"amount", amount.String(),
		"variant", strat.Variant().String(),
	)

	if err := o.facilitySvc.RequestLoan(ctx, o.account, amount, params, o); err != nil {
		return o.abort(ctx, span, checkpoint, start, amount, strat, err)
	}

	// Committed: the facility has settled repayment.
	o.cycle.State = domain.StateCommitted
	premium := o.cycle.Premium
	final := o.cycle.FinalAmount

	// Recorded profit is finalAmount minus the borrowed amount; the
	// premium is accounted on the facility side.
	profit := final.MustSub(amount)

	o.stats.RecordExecution(profit)
	o.ledger.Release(checkpoint)

	rec := domain.NewExecutionRecord(strat.Variant(), len(strat.Route()),
		amount, premium, final, profit, true, "")
	o.notify(ctx, rec)
	o.measure(ctx, strat.Variant(), "committed", start)
	o.profitTotal.Add(ctx, profit.ToDecimal().InexactFloat64(),
		metric.WithAttributes(attribute.String("asset", amount.Asset().Symbol())))

	o.log.Info(ctx, "cycle committed",
		"id", rec.ID,
		"final", final.String(),
		"premium", premium.String(),
		"profit", profit.String(),
	)
	return rec, nil
}

// OnLoanCallback is invoked by the facility exactly once per loan, inside
// the unit of work.
func (o *Orchestrator) OnLoanCallback(ctx context.Context, origin common.Address,
	amount, premium asset.Amount, initiator common.Address, params []byte) error {

	cycle := o.cycle
	if !o.active.Load() || cycle == nil {
		return apperror.New(apperror.CodeInvalidCallback,
			apperror.WithMessage("no cycle is active"))
	}
	if origin != o.facility {
		return apperror.New(apperror.CodeInvalidCallback,
			apperror.WithContext(origin.Hex()))
	}
	if initiator != o.account {
		return apperror.New(apperror.CodeInvalidInitiator,
			apperror.WithContext(initiator.Hex()))
	}

	cycle.Premium = premium
	cycle.State = domain.StateExecutingStrategy

	strat, err := o.codec.Decode(params)
	if err != nil {
		return err
	}

	final, err := o.currentEngine().Execute(ctx, o.account, amount, strat)
	if err != nil {
		return err
	}

	amountOwed := amount.MustAdd(premium)
	covered, err := final.GreaterThanOrEqual(amountOwed)
	if err != nil {
		return apperror.External(apperror.CodeInternalError, "repayment comparison", err)
	}
	if !covered {
		return apperror.New(apperror.CodeInsufficientRepayment,
			apperror.WithContext(final.String()+" < "+amountOwed.String()))
	}

	cycle.State = domain.StateRepaying
	cycle.FinalAmount = final

	// Authorize the facility to pull principal plus premium.
	o.ledger.Approve(o.account, o.facility, amountOwed)
	return nil
}

func (o *Orchestrator) abort(ctx context.Context, span apm.Span, cp ledger.Checkpoint,
	start time.Time, amount asset.Amount, strat *strategydomain.Strategy, err error) (domain.ExecutionRecord, error) {

	if rbErr := o.ledger.RollbackTo(cp); rbErr != nil {
		o.log.Error(ctx, "rollback failed", "error", rbErr)
	}
	o.cycle.State = domain.StateAborted

	code := apperror.GetCode(err)
	zero := asset.Zero(amount.Asset())
	rec := domain.NewExecutionRecord(strat.Variant(), len(strat.Route()),
		amount, orZero(o.cycle.Premium, amount.Asset()), zero, zero, false, string(code))

	o.notify(ctx, rec)
	o.measure(ctx, strat.Variant(), string(code), start)
	span.NoticeError(err)

	o.log.Warn(ctx, "cycle aborted",
		"id", rec.ID,
		"code", string(code),
		"error", err.Error(),
	)
	return rec, err
}

func (o *Orchestrator) notify(ctx context.Context, rec domain.ExecutionRecord) {
	for _, sink := range o.sinks {
		sink.Notify(ctx, rec)
	}
}

func (o *Orchestrator) measure(ctx context.Context, variant strategydomain.Variant, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("variant", variant.String()),
		attribute.String("outcome", outcome),
	)
	o.cyclesTotal.Add(ctx, 1, attrs)
	o.cycleDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}

func orZero(a asset.Amount, ref *asset.Asset) asset.Amount {
	if a.Asset() == nil {
		return asset.Zero(ref)
	}
	return a
}
