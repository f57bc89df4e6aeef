package domain

// Signal is a directional trading signal emitted by a strategy.
// It carries the triggering statistics so downstream consumers (and the
// event log) can audit why it fired.
type Signal struct {
	Symbol      string
	Side        Side
	Quantity    int64
	Price       float64 // triggering price
	Mean        float64 // trailing mean at emission, 0 if not applicable
	StdDev      float64 // trailing std dev at emission, 0 if not applicable
	TimestampMs int64
	StrategyID  string
}
