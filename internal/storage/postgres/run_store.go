package postgres

import (
	"context"
	"fmt"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, strategy_id, seed, started_at_ms, finished_at_ms,
	ticks_processed, signal_count, approved_count, rejected_count,
	executed_count, failed_count, error_count,
	initial_cash, final_cash, final_value, fatal_reason
`

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO runs (` + runColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15, $16
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.StrategyID, r.Seed, r.StartedAtMs, r.FinishedAtMs,
		r.TicksProcessed, r.SignalCount, r.ApprovedCount, r.RejectedCount,
		r.ExecutedCount, r.FailedCount, r.ErrorCount,
		r.InitialCash, r.FinalCash, r.FinalValue, r.FatalReason,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetByStrategy retrieves all runs for a strategy, ordered by started_at ASC.
func (s *RunStore) GetByStrategy(ctx context.Context, strategyID string) ([]*domain.RunRecord, error) {
	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE strategy_id = $1
		ORDER BY started_at_ms ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("get runs by strategy: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// List retrieves all runs, ordered by started_at ASC, run_id ASC.
func (s *RunStore) List(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at_ms ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var r domain.RunRecord
	err := row.Scan(
		&r.RunID, &r.StrategyID, &r.Seed, &r.StartedAtMs, &r.FinishedAtMs,
		&r.TicksProcessed, &r.SignalCount, &r.ApprovedCount, &r.RejectedCount,
		&r.ExecutedCount, &r.FailedCount, &r.ErrorCount,
		&r.InitialCash, &r.FinalCash, &r.FinalValue, &r.FatalReason,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRuns(rows rowsScanner) ([]*domain.RunRecord, error) {
	var out []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
