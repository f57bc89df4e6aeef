package memory

import (
	"context"
	"sort"
	"sync"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

type equityKey struct {
	runID       string
	timestampMs int64
}

// EquityStore is an in-memory implementation of storage.EquityStore.
type EquityStore struct {
	mu   sync.RWMutex
	data map[equityKey]*domain.EquityCurvePoint
}

// NewEquityStore creates a new in-memory equity store.
func NewEquityStore() *EquityStore {
	return &EquityStore{
		data: make(map[equityKey]*domain.EquityCurvePoint),
	}
}

// Compile-time interface check.
var _ storage.EquityStore = (*EquityStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (run_id, timestamp_ms).
func (s *EquityStore) InsertBulk(_ context.Context, points []*domain.EquityCurvePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[equityKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := equityKey{p.RunID, p.TimestampMs}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[equityKey{p.RunID, p.TimestampMs}] = &copy
	}
	return nil
}

// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
func (s *EquityStore) GetByRunID(_ context.Context, runID string) ([]*domain.EquityCurvePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.EquityCurvePoint
	for k, p := range s.data {
		if k.runID == runID {
			copy := *p
			out = append(out, &copy)
		}
	}
	sortEquity(out)
	return out, nil
}

// GetByTimeRange retrieves points for a run within [start, end] (inclusive).
func (s *EquityStore) GetByTimeRange(_ context.Context, runID string, start, end int64) ([]*domain.EquityCurvePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.EquityCurvePoint
	for k, p := range s.data {
		if k.runID == runID && p.TimestampMs >= start && p.TimestampMs <= end {
			copy := *p
			out = append(out, &copy)
		}
	}
	sortEquity(out)
	return out, nil
}

func sortEquity(points []*domain.EquityCurvePoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].TimestampMs < points[j].TimestampMs
	})
}
