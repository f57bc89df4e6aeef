package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
	"tradesim-lab/internal/storage/memory"
)

func TestRunWriter_Write(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, baseConfig(), breakoutStrategy(t, 3, 1.0, 10))
	feedPrices(t, p, "BTCUSD", 10, 11, 9, 20)
	record := p.Summary(1700000005000)

	runs := memory.NewRunStore()
	events := memory.NewEventStore()
	equity := memory.NewEquityStore()
	writer := NewRunWriter(runs, events, equity)

	require.NoError(t, writer.Write(ctx, p, record, false))

	stored, err := runs.GetByID(ctx, p.RunID())
	require.NoError(t, err)
	assert.Equal(t, record, *stored)

	entries, err := events.GetByRunID(ctx, p.RunID())
	require.NoError(t, err)
	assert.Len(t, entries, p.EventLog().Len())

	points, err := equity.GetByRunID(ctx, p.RunID())
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, int64(1000), points[0].TimestampMs)
}

func TestRunWriter_WriteSkipsSinkedEvents(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, baseConfig(), breakoutStrategy(t, 3, 1.0, 10))
	feedPrices(t, p, "BTCUSD", 10, 11, 9, 20)

	events := memory.NewEventStore()
	writer := NewRunWriter(memory.NewRunStore(), events, memory.NewEquityStore())

	require.NoError(t, writer.Write(ctx, p, p.Summary(1700000005000), true))

	entries, err := events.GetByRunID(ctx, p.RunID())
	require.NoError(t, err)
	assert.Empty(t, entries, "sinked event logs must not be written twice")
}

func TestRunWriter_WriteDuplicateRun(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, baseConfig(), breakoutStrategy(t, 3, 1.0, 10))
	feedPrices(t, p, "BTCUSD", 10, 11, 9)
	record := p.Summary(1700000005000)

	writer := NewRunWriter(memory.NewRunStore(), memory.NewEventStore(), memory.NewEquityStore())
	require.NoError(t, writer.Write(ctx, p, record, false))

	err := writer.Write(ctx, p, record, true)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestEquityCurve_CollapsesEqualTimestamps(t *testing.T) {
	series := []domain.EquityPoint{
		{TimestampMs: 1000, Value: decimal.NewFromInt(100)},
		{TimestampMs: 2000, Value: decimal.NewFromInt(101)},
		{TimestampMs: 2000, Value: decimal.NewFromInt(102)},
		{TimestampMs: 3000, Value: decimal.NewFromInt(103)},
	}

	points := EquityCurve("r1", series)
	require.Len(t, points, 3)
	assert.Equal(t, int64(2000), points[1].TimestampMs)
	assert.Equal(t, 102.0, points[1].Value, "last value wins for a shared timestamp")
	assert.Equal(t, "r1", points[0].RunID)
}

func TestEquityCurve_Empty(t *testing.T) {
	assert.Empty(t, EquityCurve("r1", nil))
}
