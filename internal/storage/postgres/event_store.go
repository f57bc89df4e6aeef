package postgres

import (
	"context"
	"fmt"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

const insertEventQuery = `
	INSERT INTO event_log (
		run_id, seq, timestamp_ms, kind, symbol, order_id, detail
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)
`

// Insert adds a new entry. Returns ErrDuplicateKey if (run_id, seq) exists.
func (s *EventStore) Insert(ctx context.Context, e *domain.EventLogEntry) error {
	if e == nil || e.RunID == "" || e.Seq <= 0 {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertEventQuery,
		e.RunID, e.Seq, e.TimestampMs, string(e.Kind), e.Symbol, e.OrderID, e.Detail,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// InsertBulk adds multiple entries atomically. Fails entire batch on any duplicate.
func (s *EventStore) InsertBulk(ctx context.Context, entries []*domain.EventLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if e == nil || e.RunID == "" || e.Seq <= 0 {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertEventQuery,
			e.RunID, e.Seq, e.TimestampMs, string(e.Kind), e.Symbol, e.OrderID, e.Detail,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert event in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRunID retrieves all entries for a run, ordered by seq ASC.
func (s *EventStore) GetByRunID(ctx context.Context, runID string) ([]*domain.EventLogEntry, error) {
	query := `
		SELECT run_id, seq, timestamp_ms, kind, symbol, order_id, detail
		FROM event_log
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get events by run: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByRunIDAndKind retrieves entries of one kind for a run, ordered by seq ASC.
func (s *EventStore) GetByRunIDAndKind(ctx context.Context, runID string, kind domain.EventKind) ([]*domain.EventLogEntry, error) {
	query := `
		SELECT run_id, seq, timestamp_ms, kind, symbol, order_id, detail
		FROM event_log
		WHERE run_id = $1 AND kind = $2
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("get events by run and kind: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows rowsScanner) ([]*domain.EventLogEntry, error) {
	var out []*domain.EventLogEntry
	for rows.Next() {
		var e domain.EventLogEntry
		var kind string
		err := rows.Scan(&e.RunID, &e.Seq, &e.TimestampMs, &kind, &e.Symbol, &e.OrderID, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = domain.EventKind(kind)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
