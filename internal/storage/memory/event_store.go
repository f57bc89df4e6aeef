package memory

import (
	"context"
	"sort"
	"sync"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

type eventKey struct {
	runID string
	seq   int64
}

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu   sync.RWMutex
	data map[eventKey]*domain.EventLogEntry
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		data: make(map[eventKey]*domain.EventLogEntry),
	}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// Insert adds a new entry. Returns ErrDuplicateKey if (run_id, seq) exists.
func (s *EventStore) Insert(_ context.Context, e *domain.EventLogEntry) error {
	if e == nil || e.RunID == "" || e.Seq <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := eventKey{e.RunID, e.Seq}
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *e
	s.data[k] = &copy
	return nil
}

// InsertBulk adds multiple entries atomically. Fails entire batch on any duplicate.
func (s *EventStore) InsertBulk(_ context.Context, entries []*domain.EventLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[eventKey]struct{}, len(entries))
	for _, e := range entries {
		if e == nil || e.RunID == "" || e.Seq <= 0 {
			return storage.ErrInvalidInput
		}
		k := eventKey{e.RunID, e.Seq}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, e := range entries {
		copy := *e
		s.data[eventKey{e.RunID, e.Seq}] = &copy
	}
	return nil
}

// GetByRunID retrieves all entries for a run, ordered by seq ASC.
func (s *EventStore) GetByRunID(_ context.Context, runID string) ([]*domain.EventLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.EventLogEntry
	for k, e := range s.data {
		if k.runID == runID {
			copy := *e
			out = append(out, &copy)
		}
	}
	sortEvents(out)
	return out, nil
}

// GetByRunIDAndKind retrieves entries of one kind for a run, ordered by seq ASC.
func (s *EventStore) GetByRunIDAndKind(_ context.Context, runID string, kind domain.EventKind) ([]*domain.EventLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.EventLogEntry
	for k, e := range s.data {
		if k.runID == runID && e.Kind == kind {
			copy := *e
			out = append(out, &copy)
		}
	}
	sortEvents(out)
	return out, nil
}

func sortEvents(entries []*domain.EventLogEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Seq < entries[j].Seq
	})
}
