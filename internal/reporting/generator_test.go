package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
	"tradesim-lab/internal/storage/memory"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func seedStores(t *testing.T) (*memory.RunStore, *memory.EventStore, *memory.EquityStore) {
	t.Helper()
	ctx := context.Background()

	runs := memory.NewRunStore()
	events := memory.NewEventStore()
	equity := memory.NewEquityStore()

	require.NoError(t, runs.Insert(ctx, &domain.RunRecord{
		RunID:          "run-1",
		StrategyID:     "VOLATILITY_BREAKOUT_w20_k2.00",
		Seed:           42,
		StartedAtMs:    1000,
		FinishedAtMs:   5000,
		TicksProcessed: 3,
		SignalCount:    1,
		ApprovedCount:  1,
		ExecutedCount:  1,
		ErrorCount:     1,
		InitialCash:    "100000",
		FinalCash:      "99800",
		FinalValue:     "110000",
	}))

	require.NoError(t, equity.InsertBulk(ctx, []*domain.EquityCurvePoint{
		{RunID: "run-1", TimestampMs: 1000, Value: 100000},
		{RunID: "run-1", TimestampMs: 2000, Value: 105000},
		{RunID: "run-1", TimestampMs: 3000, Value: 110000},
	}))

	require.NoError(t, events.Insert(ctx, &domain.EventLogEntry{
		RunID: "run-1", Seq: 1, TimestampMs: 2000,
		Kind: domain.EventKindError, Detail: "out-of-order tick: 900 < 1000",
	}))

	return runs, events, equity
}

func TestGenerator_Generate(t *testing.T) {
	runs, events, equity := seedStores(t)
	gen := NewGenerator(runs, events, equity).WithClock(fixedClock())

	report, err := gen.Generate(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.Run.RunID)
	assert.Equal(t, 3, report.EquitySamples)
	assert.InDelta(t, 0.10, report.Performance.TotalReturn, 1e-9)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "out-of-order")
	assert.Equal(t, fixedClock()(), report.GeneratedAt)
}

func TestGenerator_GenerateUnknownRun(t *testing.T) {
	runs, events, equity := seedStores(t)
	gen := NewGenerator(runs, events, equity)

	_, err := gen.Generate(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGenerator_Compare(t *testing.T) {
	runs, events, equity := seedStores(t)
	ctx := context.Background()

	require.NoError(t, runs.Insert(ctx, &domain.RunRecord{
		RunID: "run-2", StrategyID: "MOMENTUM_n10_t0.050", Seed: 7, StartedAtMs: 2000,
		InitialCash: "100000", FinalCash: "95000", FinalValue: "95000",
	}))
	require.NoError(t, equity.InsertBulk(ctx, []*domain.EquityCurvePoint{
		{RunID: "run-2", TimestampMs: 2000, Value: 100000},
		{RunID: "run-2", TimestampMs: 3000, Value: 95000},
	}))

	gen := NewGenerator(runs, events, equity)
	rows, err := gen.Compare(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, "run-2", rows[1].RunID)
	assert.InDelta(t, -0.05, rows[1].TotalReturn, 1e-9)
}

func TestRenderMarkdown(t *testing.T) {
	runs, events, equity := seedStores(t)
	gen := NewGenerator(runs, events, equity).WithClock(fixedClock())

	report, err := gen.Generate(context.Background(), "run-1")
	require.NoError(t, err)

	out := RenderMarkdown(report)
	assert.Contains(t, out, "# Simulation Run Report")
	assert.Contains(t, out, "| Strategy | VOLATILITY_BREAKOUT_w20_k2.00 |")
	assert.Contains(t, out, "| Executed | 1 |")
	assert.Contains(t, out, "Total Return | 10.0000%")
	assert.Contains(t, out, "## Errors")
}

func TestRenderEquityCSV(t *testing.T) {
	out := RenderEquityCSV([]*domain.EquityCurvePoint{
		{RunID: "r1", TimestampMs: 1000, Value: 100000},
		{RunID: "r1", TimestampMs: 2000, Value: 100123.456789},
	})
	assert.Equal(t,
		"run_id,timestamp_ms,value\nr1,1000,100000.000000\nr1,2000,100123.456789\n",
		out)
}
