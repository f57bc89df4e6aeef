package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

func testEvent(runID string, seq int64, kind domain.EventKind) *domain.EventLogEntry {
	return &domain.EventLogEntry{
		Seq:         seq,
		RunID:       runID,
		TimestampMs: seq * 1000,
		Kind:        kind,
		Symbol:      "BTCUSD",
		OrderID:     "order-1",
		Detail:      "BUY 10 @ 42000.000000",
	}
}

func TestEventStore_InsertAndGetByRunID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testEvent("r1", 2, domain.EventKindExecution)))
	require.NoError(t, store.Insert(ctx, testEvent("r1", 1, domain.EventKindSignal)))
	require.NoError(t, store.Insert(ctx, testEvent("r2", 1, domain.EventKindSignal)))

	got, err := store.GetByRunID(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, domain.EventKindSignal, got[0].Kind)
	assert.Equal(t, int64(2), got[1].Seq)
}

func TestEventStore_DuplicateRunSeq(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testEvent("r1", 1, domain.EventKindSignal)))
	assert.ErrorIs(t, store.Insert(ctx, testEvent("r1", 1, domain.EventKindError)), storage.ErrDuplicateKey)
	assert.NoError(t, store.Insert(ctx, testEvent("r2", 1, domain.EventKindSignal)))
}

func TestEventStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testEvent("r1", 3, domain.EventKindSignal)))

	err := store.InsertBulk(ctx, []*domain.EventLogEntry{
		testEvent("r1", 1, domain.EventKindSignal),
		testEvent("r1", 3, domain.EventKindSignal), // duplicate
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByRunID(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 1, "failed batch must not leave partial rows")
	assert.Equal(t, int64(3), got[0].Seq)
}

func TestEventStore_GetByRunIDAndKind(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.EventLogEntry{
		testEvent("r1", 1, domain.EventKindSignal),
		testEvent("r1", 2, domain.EventKindRiskDecision),
		testEvent("r1", 3, domain.EventKindSignal),
	}))

	signals, err := store.GetByRunIDAndKind(ctx, "r1", domain.EventKindSignal)
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, int64(1), signals[0].Seq)
	assert.Equal(t, int64(3), signals[1].Seq)
}
