package engine

import (
	"context"
	"fmt"
	"time"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/observability"
	"tradesim-lab/internal/storage"
)

// RunWriter persists a finished run: the summary record, the event log and
// the equity curve.
type RunWriter struct {
	runs    storage.RunStore
	events  storage.EventStore
	equity  storage.EquityStore
	metrics *observability.Metrics
}

// NewRunWriter creates a RunWriter over the given stores.
func NewRunWriter(runs storage.RunStore, events storage.EventStore, equity storage.EquityStore) *RunWriter {
	return &RunWriter{runs: runs, events: events, equity: equity}
}

// WithMetrics enables query instrumentation on the writer.
func (w *RunWriter) WithMetrics(m *observability.Metrics) *RunWriter {
	w.metrics = m
	return w
}

func (w *RunWriter) observe(database, operation string, start time.Time, err error) {
	if w.metrics != nil {
		w.metrics.RecordDBQuery(database, operation, time.Since(start).Seconds(), err)
	}
}

// Write persists the run record, event log and equity curve of a completed
// pipeline. Set eventsPersisted when the pipeline's event log was built with
// a live storage sink, so entries are not inserted twice.
func (w *RunWriter) Write(ctx context.Context, p *Pipeline, record domain.RunRecord, eventsPersisted bool) error {
	start := time.Now()
	err := w.runs.Insert(ctx, &record)
	w.observe("postgres", "insert_run", start, err)
	if err != nil {
		return fmt.Errorf("persist run %s: %w", record.RunID, err)
	}

	if !eventsPersisted {
		entries := p.EventLog().All()
		if len(entries) > 0 {
			batch := make([]*domain.EventLogEntry, len(entries))
			for i := range entries {
				batch[i] = &entries[i]
			}
			start = time.Now()
			err = w.events.InsertBulk(ctx, batch)
			w.observe("postgres", "insert_events_bulk", start, err)
			if err != nil {
				return fmt.Errorf("persist event log for %s: %w", record.RunID, err)
			}
		}
	}

	points := EquityCurve(record.RunID, p.Portfolio().Equity())
	if len(points) > 0 {
		start = time.Now()
		err = w.equity.InsertBulk(ctx, points)
		w.observe("clickhouse", "insert_equity_bulk", start, err)
		if err != nil {
			return fmt.Errorf("persist equity curve for %s: %w", record.RunID, err)
		}
	}
	return nil
}

// EquityCurve converts an in-memory equity series into storable points.
// Ticks sharing a timestamp produce one point holding the last value, since
// the equity store keys on (run_id, timestamp_ms).
func EquityCurve(runID string, series []domain.EquityPoint) []*domain.EquityCurvePoint {
	points := make([]*domain.EquityCurvePoint, 0, len(series))
	for _, sample := range series {
		value, _ := sample.Value.Float64()
		if n := len(points); n > 0 && points[n-1].TimestampMs == sample.TimestampMs {
			points[n-1].Value = value
			continue
		}
		points = append(points, &domain.EquityCurvePoint{
			RunID:       runID,
			TimestampMs: sample.TimestampMs,
			Value:       value,
		})
	}
	return points
}
