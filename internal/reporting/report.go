package reporting

import (
	"time"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/metrics"
)

// Report is the rendered view of one simulation run.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Run summary as persisted.
	Run domain.RunRecord

	// Performance computed from the stored equity curve.
	Performance metrics.Performance

	// EquitySamples is the number of stored equity points.
	EquitySamples int

	// Errors lists the detail text of every ERROR event, in run order.
	Errors []string
}

// StrategyComparisonRow is one row of a multi-run comparison, one per run.
type StrategyComparisonRow struct {
	RunID       string
	StrategyID  string
	Seed        int64
	TotalReturn float64
	Sharpe      float64
	MaxDrawdown float64
	Executed    int
	Rejected    int
	Failed      int
}
