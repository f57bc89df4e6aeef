// Package eventlog provides the append-only record of everything the
// pipeline does: signals, risk decisions, execution outcomes and errors.
package eventlog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tradesim-lab/internal/domain"
)

// ErrSinkAppend wraps a persistent sink failure. Callers must treat it as
// fatal: a log that silently drops entries cannot back an audit trail.
var ErrSinkAppend = errors.New("event log sink append failed")

// Sink receives every appended entry, typically backed by a storage
// implementation.
type Sink interface {
	Append(ctx context.Context, entry *domain.EventLogEntry) error
}

// Log is an in-memory append-only event log. Entries are totally ordered by
// the sequence number assigned at append time; nothing is ever removed.
type Log struct {
	mu      sync.RWMutex
	entries []domain.EventLogEntry
	counts  map[domain.EventKind]int
	seq     int64
	sink    Sink
}

// New creates an empty log.
func New() *Log {
	return &Log{counts: make(map[domain.EventKind]int)}
}

// NewWithSink creates a log that mirrors every append into sink.
func NewWithSink(sink Sink) *Log {
	l := New()
	l.sink = sink
	return l
}

// Append assigns the next sequence number to the entry and records it.
// A sink failure returns an error wrapping ErrSinkAppend; the entry is not
// recorded in that case.
func (l *Log) Append(ctx context.Context, entry domain.EventLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Seq = l.seq + 1
	if l.sink != nil {
		if err := l.sink.Append(ctx, &entry); err != nil {
			return fmt.Errorf("%w: %v", ErrSinkAppend, err)
		}
	}
	l.seq = entry.Seq
	l.entries = append(l.entries, entry)
	l.counts[entry.Kind]++
	return nil
}

// Entries returns a copy of all entries of the given kind in append order.
func (l *Log) Entries(kind domain.EventKind) []domain.EventLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.EventLogEntry
	for _, e := range l.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// All returns a copy of every entry in append order.
func (l *Log) All() []domain.EventLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.EventLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns the number of entries of the given kind.
func (l *Log) Count(kind domain.EventKind) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[kind]
}

// Len returns the total number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
