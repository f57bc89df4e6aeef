package clickhouse

import (
	"context"
	"fmt"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/storage"
)

// EquityStore implements storage.EquityStore using ClickHouse.
type EquityStore struct {
	conn *Conn
}

// NewEquityStore creates a new EquityStore.
func NewEquityStore(conn *Conn) *EquityStore {
	return &EquityStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityStore = (*EquityStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (run_id, timestamp_ms). MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch is sent.
func (s *EquityStore) InsertBulk(ctx context.Context, points []*domain.EquityCurvePoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		runID       string
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.RunID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curve (run_id, timestamp_ms, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.RunID, uint64(p.TimestampMs), p.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRunID retrieves all points for a run, ordered by timestamp ASC.
func (s *EquityStore) GetByRunID(ctx context.Context, runID string) ([]*domain.EquityCurvePoint, error) {
	query := `
		SELECT run_id, timestamp_ms, value
		FROM equity_curve
		WHERE run_id = ?
		ORDER BY timestamp_ms ASC
	`
	return s.query(ctx, query, runID)
}

// GetByTimeRange retrieves points for a run within [start, end] (inclusive).
func (s *EquityStore) GetByTimeRange(ctx context.Context, runID string, start, end int64) ([]*domain.EquityCurvePoint, error) {
	query := `
		SELECT run_id, timestamp_ms, value
		FROM equity_curve
		WHERE run_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`
	return s.query(ctx, query, runID, uint64(start), uint64(end))
}

func (s *EquityStore) query(ctx context.Context, query string, args ...any) ([]*domain.EquityCurvePoint, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query equity curve: %w", err)
	}
	defer rows.Close()

	var out []*domain.EquityCurvePoint
	for rows.Next() {
		var p domain.EquityCurvePoint
		var ts uint64
		if err := rows.Scan(&p.RunID, &ts, &p.Value); err != nil {
			return nil, fmt.Errorf("scan equity point: %w", err)
		}
		p.TimestampMs = int64(ts)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity points: %w", err)
	}
	return out, nil
}

func (s *EquityStore) exists(ctx context.Context, runID string, timestampMs int64) (bool, error) {
	query := `
		SELECT count() FROM equity_curve
		WHERE run_id = ? AND timestamp_ms = ?
	`
	var count uint64
	row := s.conn.QueryRow(ctx, query, runID, uint64(timestampMs))
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
