package storage

import (
	"context"

	"tradesim-lab/internal/domain"
)

// RunStore provides access to runs storage.
type RunStore interface {
	// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// GetByStrategy retrieves all runs for a strategy, ordered by started_at ASC.
	GetByStrategy(ctx context.Context, strategyID string) ([]*domain.RunRecord, error)

	// List retrieves all runs, ordered by started_at ASC, run_id ASC.
	List(ctx context.Context) ([]*domain.RunRecord, error)
}

// EventStore provides access to event_log storage.
type EventStore interface {
	// Insert adds a new entry. Returns ErrDuplicateKey if (run_id, seq) exists.
	Insert(ctx context.Context, e *domain.EventLogEntry) error

	// InsertBulk adds multiple entries atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, entries []*domain.EventLogEntry) error

	// GetByRunID retrieves all entries for a run, ordered by seq ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.EventLogEntry, error)

	// GetByRunIDAndKind retrieves entries of one kind for a run, ordered by seq ASC.
	GetByRunIDAndKind(ctx context.Context, runID string, kind domain.EventKind) ([]*domain.EventLogEntry, error)
}

// EquityStore provides access to equity_curve storage.
type EquityStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (run_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.EquityCurvePoint) error

	// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.EquityCurvePoint, error)

	// GetByTimeRange retrieves points for a run within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, runID string, start, end int64) ([]*domain.EquityCurvePoint, error)
}
