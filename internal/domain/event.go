package domain

// EventKind classifies event log entries.
type EventKind string

// Event kind constants.
const (
	EventKindSignal       EventKind = "SIGNAL"
	EventKindRiskDecision EventKind = "RISK_DECISION"
	EventKindExecution    EventKind = "EXECUTION"
	EventKindError        EventKind = "ERROR"
)

// EventLogEntry is one immutable record in the append-only event log.
// Seq is assigned by the log at append time and defines total order,
// independent of timestamp ties.
type EventLogEntry struct {
	Seq         int64
	RunID       string
	TimestampMs int64
	Kind        EventKind
	Symbol      string
	OrderID     string
	Detail      string
}
