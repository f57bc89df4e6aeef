// Package memory provides in-memory store implementations, used by tests
// and runs that do not persist anything.
package memory

import (
	"context"
	"sort"
	"sync"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RunRecord // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*domain.RunRecord),
	}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RunID] = &copy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetByStrategy retrieves all runs for a strategy, ordered by started_at ASC.
func (s *RunStore) GetByStrategy(_ context.Context, strategyID string) ([]*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.RunRecord
	for _, r := range s.data {
		if r.StrategyID == strategyID {
			copy := *r
			out = append(out, &copy)
		}
	}
	sortRuns(out)
	return out, nil
}

// List retrieves all runs, ordered by started_at ASC, run_id ASC.
func (s *RunStore) List(_ context.Context) ([]*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RunRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		out = append(out, &copy)
	}
	sortRuns(out)
	return out, nil
}

func sortRuns(runs []*domain.RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAtMs != runs[j].StartedAtMs {
			return runs[i].StartedAtMs < runs[j].StartedAtMs
		}
		return runs[i].RunID < runs[j].RunID
	})
}
