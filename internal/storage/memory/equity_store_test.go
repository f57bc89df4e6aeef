package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

func testPoints(runID string, ts ...int64) []*domain.EquityCurvePoint {
	out := make([]*domain.EquityCurvePoint, len(ts))
	for i, t := range ts {
		out[i] = &domain.EquityCurvePoint{RunID: runID, TimestampMs: t, Value: float64(100 + i)}
	}
	return out
}

func TestEquityStore_InsertBulkAndGet(t *testing.T) {
	store := NewEquityStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, testPoints("r1", 3000, 1000, 2000)))
	require.NoError(t, store.InsertBulk(ctx, testPoints("r2", 1000)))

	got, err := store.GetByRunID(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1000), got[0].TimestampMs)
	assert.Equal(t, int64(3000), got[2].TimestampMs)
}

func TestEquityStore_DuplicateTimestamp(t *testing.T) {
	store := NewEquityStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, testPoints("r1", 1000)))
	assert.ErrorIs(t, store.InsertBulk(ctx, testPoints("r1", 1000)), storage.ErrDuplicateKey)
	assert.ErrorIs(t, store.InsertBulk(ctx, testPoints("r2", 500, 500)), storage.ErrDuplicateKey)
}

func TestEquityStore_GetByTimeRange(t *testing.T) {
	store := NewEquityStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, testPoints("r1", 1000, 2000, 3000, 4000)))

	got, err := store.GetByTimeRange(ctx, "r1", 2000, 3000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2000), got[0].TimestampMs)
	assert.Equal(t, int64(3000), got[1].TimestampMs)
}

func TestEquityStore_EmptyBulkIsNoop(t *testing.T) {
	store := NewEquityStore()
	assert.NoError(t, store.InsertBulk(context.Background(), nil))
}
