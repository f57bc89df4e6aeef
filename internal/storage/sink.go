package storage

import (
	"context"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/eventlog"
)

// EventSink adapts an EventStore to the event log's Sink interface, so a
// run can persist its event log entry by entry as it executes.
type EventSink struct {
	store EventStore
}

// NewEventSink wraps an event store.
func NewEventSink(store EventStore) *EventSink {
	return &EventSink{store: store}
}

// Append persists one entry.
func (s *EventSink) Append(ctx context.Context, entry *domain.EventLogEntry) error {
	return s.store.Insert(ctx, entry)
}

var _ eventlog.Sink = (*EventSink)(nil)
