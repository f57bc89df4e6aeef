// Package reporting builds human-readable reports from stored runs.
package reporting

import (
	"context"
	"fmt"
	"time"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/metrics"
	"tradesim-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	runStore    storage.RunStore
	eventStore  storage.EventStore
	equityStore storage.EquityStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.RunStore, eventStore storage.EventStore, equityStore storage.EquityStore) *Generator {
	return &Generator{
		runStore:    runStore,
		eventStore:  eventStore,
		equityStore: equityStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report for one run.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	run, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	equity, err := g.equityStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load equity curve for %s: %w", runID, err)
	}
	values := make([]float64, len(equity))
	for i, p := range equity {
		values[i] = p.Value
	}

	errorEvents, err := g.eventStore.GetByRunIDAndKind(ctx, runID, domain.EventKindError)
	if err != nil {
		return nil, fmt.Errorf("load error events for %s: %w", runID, err)
	}
	errors := make([]string, 0, len(errorEvents))
	for _, e := range errorEvents {
		errors = append(errors, e.Detail)
	}

	return &Report{
		GeneratedAt:   g.now(),
		Run:           *run,
		Performance:   metrics.ComputeFromValues(values),
		EquitySamples: len(equity),
		Errors:        errors,
	}, nil
}

// Compare builds a comparison table across all runs of all strategies,
// ordered as the run store lists them.
func (g *Generator) Compare(ctx context.Context) ([]StrategyComparisonRow, error) {
	runs, err := g.runStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	rows := make([]StrategyComparisonRow, 0, len(runs))
	for _, run := range runs {
		equity, err := g.equityStore.GetByRunID(ctx, run.RunID)
		if err != nil {
			return nil, fmt.Errorf("load equity curve for %s: %w", run.RunID, err)
		}
		values := make([]float64, len(equity))
		for i, p := range equity {
			values[i] = p.Value
		}
		perf := metrics.ComputeFromValues(values)

		rows = append(rows, StrategyComparisonRow{
			RunID:       run.RunID,
			StrategyID:  run.StrategyID,
			Seed:        run.Seed,
			TotalReturn: perf.TotalReturn,
			Sharpe:      perf.Sharpe,
			MaxDrawdown: perf.MaxDrawdown,
			Executed:    run.ExecutedCount,
			Rejected:    run.RejectedCount,
			Failed:      run.FailedCount,
		})
	}
	return rows, nil
}
