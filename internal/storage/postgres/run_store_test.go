package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

func testRun(runID, strategyID string, startedAtMs int64) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:          runID,
		StrategyID:     strategyID,
		Seed:           42,
		StartedAtMs:    startedAtMs,
		FinishedAtMs:   startedAtMs + 60000,
		TicksProcessed: 1000,
		SignalCount:    20,
		ApprovedCount:  18,
		RejectedCount:  2,
		ExecutedCount:  17,
		FailedCount:    1,
		ErrorCount:     0,
		InitialCash:    "100000",
		FinalCash:      "98123.456789",
		FinalValue:     "101500.000001",
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	run := testRun("run-1", "VOLATILITY_BREAKOUT_w20_k2.00", 1000)
	require.NoError(t, store.Insert(ctx, run))

	got, err := store.GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	// Decimal strings survive the round trip untouched.
	assert.Equal(t, "98123.456789", got.FinalCash)
}

func TestRunStore_DuplicateAndNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("run-1", "s", 1000)))
	assert.ErrorIs(t, store.Insert(ctx, testRun("run-1", "s", 2000)), storage.ErrDuplicateKey)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunStore_GetByStrategyOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRun("run-b", "alpha", 2000)))
	require.NoError(t, store.Insert(ctx, testRun("run-a", "alpha", 1000)))
	require.NoError(t, store.Insert(ctx, testRun("run-c", "beta", 1500)))

	alpha, err := store.GetByStrategy(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	assert.Equal(t, "run-a", alpha[0].RunID)
	assert.Equal(t, "run-b", alpha[1].RunID)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run-c", all[1].RunID)
}
