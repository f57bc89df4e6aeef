// Package engine wires feed, strategy, risk and execution into the
// sequential simulation pipeline and owns the run lifecycle.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/eventlog"
	"tradesim-lab/internal/execution"
	"tradesim-lab/internal/idhash"
	"tradesim-lab/internal/observability"
	"tradesim-lab/internal/risk"
	"tradesim-lab/internal/strategy"
)

// ErrPositionLimitBreached indicates that a filled order left a position
// above the configured limit. The risk gate makes this impossible in a
// correct run, so a breach aborts the simulation.
var ErrPositionLimitBreached = errors.New("position limit breached after execution")

// TickSource yields ticks one at a time. Next returns io.EOF when the
// source is exhausted.
type TickSource interface {
	Next(ctx context.Context) (domain.Tick, error)
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Config   Config
	Strategy strategy.Strategy

	// EventLog receives every pipeline event. Defaults to a fresh in-memory
	// log.
	EventLog *eventlog.Log

	// FailurePolicy overrides the seeded random policy derived from Config,
	// mainly for tests.
	FailurePolicy execution.FailurePolicy

	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics

	// Logger defaults to a stderr logger.
	Logger *log.Logger

	// StartedAtMs pins the run start time. Zero means wall clock.
	StartedAtMs int64
}

// Pipeline processes ticks sequentially: mark price, strategy, risk gate,
// execution, equity sample. It is not safe for concurrent use; one run is
// one goroutine.
type Pipeline struct {
	cfg       Config
	strat     strategy.Strategy
	gate      *risk.Gate
	portfolio *domain.Portfolio
	sim       *execution.Simulator
	events    *eventlog.Log
	metrics   *observability.Metrics
	logger    *log.Logger

	runID       string
	seed        int64
	startedAtMs int64

	lastTimestampMs int64
	orderSeq        int64

	ticksProcessed int
	signalCount    int
	approvedCount  int
	rejectedCount  int
	executedCount  int
	failedCount    int
	errorCount     int
	fatalReason    string
}

// NewPipeline builds a pipeline from options. The risk gate, portfolio and
// execution simulator are constructed internally from Config.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Strategy == nil {
		return nil, errors.New("strategy is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	gate, err := risk.NewGate(opts.Config.MaxPositionSize)
	if err != nil {
		return nil, err
	}

	if opts.EventLog == nil {
		opts.EventLog = eventlog.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[engine] ", log.LstdFlags)
	}
	if opts.StartedAtMs == 0 {
		opts.StartedAtMs = time.Now().UnixMilli()
	}

	policy := opts.FailurePolicy
	if policy == nil {
		policy = execution.NewRandomFailures(opts.Config.ExecutionFailureRate, opts.Config.Seed)
	}

	portfolio := domain.NewPortfolio(opts.Config.InitialCash)
	sim := execution.NewSimulator(portfolio, policy, execution.Config{
		SlippageBps: opts.Config.SlippageBps,
		FeePerTrade: opts.Config.FeePerTrade,
	})

	return &Pipeline{
		cfg:         opts.Config,
		strat:       opts.Strategy,
		gate:        gate,
		portfolio:   portfolio,
		sim:         sim,
		events:      opts.EventLog,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		runID:       idhash.ComputeRunID(opts.Strategy.ID(), opts.Config.Seed, opts.StartedAtMs),
		seed:        opts.Config.Seed,
		startedAtMs: opts.StartedAtMs,
	}, nil
}

// RunID returns the deterministic identifier of this run.
func (p *Pipeline) RunID() string { return p.runID }

// Portfolio exposes the run's portfolio for reporting.
func (p *Pipeline) Portfolio() *domain.Portfolio { return p.portfolio }

// EventLog exposes the run's event log.
func (p *Pipeline) EventLog() *eventlog.Log { return p.events }

// Run drains the source through Process until io.EOF, context cancellation
// or a fatal error.
func (p *Pipeline) Run(ctx context.Context, source TickSource) error {
	for {
		tick, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tick source: %w", err)
		}
		if err := p.Process(ctx, tick); err != nil {
			return err
		}
	}
}

// Process runs one tick through the full pipeline. A non-nil error is fatal
// to the run: a broken order lifecycle, a position above the limit or a
// failed event log sink. Per-tick data and strategy problems are logged as
// ERROR events and the tick is skipped.
func (p *Pipeline) Process(ctx context.Context, tick domain.Tick) error {
	if err := tick.Validate(); err != nil {
		return p.recordError(ctx, tick.Symbol, tick.TimestampMs, "", fmt.Sprintf("invalid tick: %v", err), "invalid_tick")
	}
	if tick.TimestampMs < p.lastTimestampMs {
		return p.recordError(ctx, tick.Symbol, tick.TimestampMs, "",
			fmt.Sprintf("out-of-order tick: %d < %d", tick.TimestampMs, p.lastTimestampMs), "out_of_order")
	}
	p.lastTimestampMs = tick.TimestampMs

	p.portfolio.MarkPrice(tick.Symbol, tick.Price)

	signal, err := p.strat.OnTick(tick)
	if err != nil {
		if rerr := p.recordError(ctx, tick.Symbol, tick.TimestampMs, "", fmt.Sprintf("strategy: %v", err), "strategy"); rerr != nil {
			return rerr
		}
		return p.finishTick(tick)
	}

	if signal != nil {
		if err := p.handleSignal(ctx, tick, signal); err != nil {
			return err
		}
	}

	return p.finishTick(tick)
}

// finishTick samples equity and counts the tick as processed. Every tick
// that passes validation contributes one equity point, traded or not.
func (p *Pipeline) finishTick(tick domain.Tick) error {
	p.portfolio.AppendEquity(tick.TimestampMs)
	p.ticksProcessed++
	if p.metrics != nil {
		p.metrics.TicksProcessed.Inc()
		value, _ := p.portfolio.TotalValue().Float64()
		p.metrics.PortfolioEquity.Set(value)
	}
	return nil
}

func (p *Pipeline) handleSignal(ctx context.Context, tick domain.Tick, signal *domain.Signal) error {
	p.orderSeq++
	orderID := idhash.ComputeOrderID(p.runID, signal.Symbol, string(signal.Side),
		signal.Quantity, signal.TimestampMs, p.orderSeq)

	order, err := domain.NewOrder(orderID, signal.Symbol, signal.Side, signal.Quantity,
		signal.Price, signal.TimestampMs)
	if err != nil {
		return p.recordError(ctx, signal.Symbol, signal.TimestampMs, orderID,
			fmt.Sprintf("signal rejected at order construction: %v", err), "bad_signal")
	}

	p.signalCount++
	if p.metrics != nil {
		p.metrics.SignalsEmitted.WithLabelValues(string(signal.Side)).Inc()
	}
	if err := p.events.Append(ctx, domain.EventLogEntry{
		RunID:       p.runID,
		TimestampMs: signal.TimestampMs,
		Kind:        domain.EventKindSignal,
		Symbol:      signal.Symbol,
		OrderID:     order.ID,
		Detail: fmt.Sprintf("%s %d @ %.6f (mean=%.6f std=%.6f strategy=%s)",
			signal.Side, signal.Quantity, signal.Price, signal.Mean, signal.StdDev, signal.StrategyID),
	}); err != nil {
		return p.fatal(err)
	}

	decision := p.gate.Check(order, p.portfolio.PositionSnapshot(order.Symbol))
	if err := p.events.Append(ctx, domain.EventLogEntry{
		RunID:       p.runID,
		TimestampMs: tick.TimestampMs,
		Kind:        domain.EventKindRiskDecision,
		Symbol:      order.Symbol,
		OrderID:     order.ID,
		Detail:      riskDetail(decision),
	}); err != nil {
		return p.fatal(err)
	}

	if !decision.Approved {
		p.rejectedCount++
		if p.metrics != nil {
			p.metrics.OrdersRejected.Inc()
		}
		if err := order.Transition(domain.StatusRejected, tick.TimestampMs); err != nil {
			return p.fatal(err)
		}
		return nil
	}

	p.approvedCount++
	if p.metrics != nil {
		p.metrics.OrdersApproved.Inc()
	}
	if err := order.Transition(domain.StatusValidated, tick.TimestampMs); err != nil {
		return p.fatal(err)
	}

	result, err := p.sim.Execute(order, tick)
	if err != nil {
		return p.fatal(err)
	}

	if err := p.events.Append(ctx, domain.EventLogEntry{
		RunID:       p.runID,
		TimestampMs: result.TimestampMs,
		Kind:        domain.EventKindExecution,
		Symbol:      result.Symbol,
		OrderID:     result.OrderID,
		Detail:      executionDetail(result),
	}); err != nil {
		return p.fatal(err)
	}

	switch result.Status {
	case domain.StatusExecuted:
		p.executedCount++
		if p.metrics != nil {
			p.metrics.OrdersExecuted.Inc()
		}
		net := p.portfolio.PositionSnapshot(order.Symbol).NetQuantity
		if net > p.cfg.MaxPositionSize || net < -p.cfg.MaxPositionSize {
			return p.fatal(fmt.Errorf("%w: %s at %d, limit %d",
				ErrPositionLimitBreached, order.Symbol, net, p.cfg.MaxPositionSize))
		}
	case domain.StatusFailed:
		p.failedCount++
		if p.metrics != nil {
			p.metrics.OrdersFailed.Inc()
		}
	}

	return nil
}

// recordError logs a recoverable per-tick error as an ERROR event. The
// returned error is non-nil only when the event log itself fails.
func (p *Pipeline) recordError(ctx context.Context, symbol string, timestampMs int64, orderID, detail, reason string) error {
	p.errorCount++
	p.logger.Printf("ERROR %s: %s", symbol, detail)
	if p.metrics != nil {
		p.metrics.PipelineErrors.Inc()
		p.metrics.TicksSkipped.WithLabelValues(reason).Inc()
	}
	if err := p.events.Append(ctx, domain.EventLogEntry{
		RunID:       p.runID,
		TimestampMs: timestampMs,
		Kind:        domain.EventKindError,
		Symbol:      symbol,
		OrderID:     orderID,
		Detail:      detail,
	}); err != nil {
		return p.fatal(err)
	}
	return nil
}

func (p *Pipeline) fatal(err error) error {
	p.fatalReason = err.Error()
	p.logger.Printf("FATAL: %v", err)
	return err
}

// Summary snapshots the run into a RunRecord.
func (p *Pipeline) Summary(finishedAtMs int64) domain.RunRecord {
	return domain.RunRecord{
		RunID:          p.runID,
		StrategyID:     p.strat.ID(),
		Seed:           p.seed,
		StartedAtMs:    p.startedAtMs,
		FinishedAtMs:   finishedAtMs,
		TicksProcessed: p.ticksProcessed,
		SignalCount:    p.signalCount,
		ApprovedCount:  p.approvedCount,
		RejectedCount:  p.rejectedCount,
		ExecutedCount:  p.executedCount,
		FailedCount:    p.failedCount,
		ErrorCount:     p.errorCount,
		InitialCash:    p.portfolio.InitialCash.String(),
		FinalCash:      p.portfolio.Cash.String(),
		FinalValue:     p.portfolio.TotalValue().String(),
		FatalReason:    p.fatalReason,
	}
}

func riskDetail(d risk.Decision) string {
	if d.Approved {
		return fmt.Sprintf("APPROVED resulting=%d", d.ResultingQuantity)
	}
	return fmt.Sprintf("REJECTED resulting=%d reason=%s", d.ResultingQuantity, d.Reason)
}

func executionDetail(r *execution.Result) string {
	if r.Status == domain.StatusFailed {
		return fmt.Sprintf("FAILED reason=%s", r.Reason)
	}
	return fmt.Sprintf("EXECUTED fill=%.6f notional=%s fee=%s",
		r.FillPrice, r.Notional.StringFixed(6), r.Fee.StringFixed(6))
}
