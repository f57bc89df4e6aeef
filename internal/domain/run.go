package domain

// RunRecord summarizes one completed simulation run for persistence and
// reporting. Monetary fields are decimal strings to survive round-tripping
// through storage without precision loss.
type RunRecord struct {
	RunID      string
	StrategyID string
	Seed       int64

	StartedAtMs  int64
	FinishedAtMs int64

	TicksProcessed int
	SignalCount    int
	ApprovedCount  int
	RejectedCount  int
	ExecutedCount  int
	FailedCount    int
	ErrorCount     int

	InitialCash string
	FinalCash   string
	FinalValue  string

	FatalReason string // empty for a clean run
}

// EquityCurvePoint is one persisted equity sample of a run. Value is a
// float64 because the equity store is a time-series backend used for
// plotting and performance metrics, not for cash accounting.
type EquityCurvePoint struct {
	RunID       string
	TimestampMs int64
	Value       float64
}
