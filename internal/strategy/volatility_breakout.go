package strategy

import (
	"fmt"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/stats"
)

// VolatilityBreakout emits BUY when the current price deviates above the
// trailing mean by more than threshold standard deviations, and SELL when it
// deviates below by the same margin.
//
// The z-score is computed against the window as it stood before the current
// tick, then the tick is folded into the window. No signal is produced until
// the window is full, and a zero standard deviation is a defined no-signal
// case rather than an error.
type VolatilityBreakout struct {
	tracker   *stats.Tracker
	threshold float64
	quantity  int64
}

// NewVolatilityBreakout creates the strategy with the given trailing window
// size, z-score threshold and per-signal order quantity.
func NewVolatilityBreakout(window int, threshold float64, quantity int64) (*VolatilityBreakout, error) {
	tracker, err := stats.NewTracker(window)
	if err != nil {
		return nil, err
	}
	return &VolatilityBreakout{
		tracker:   tracker,
		threshold: threshold,
		quantity:  quantity,
	}, nil
}

// ID returns the strategy identifier including parameters.
func (s *VolatilityBreakout) ID() string {
	return fmt.Sprintf("%s_w%d_k%.2f", TypeVolatilityBreakout, s.tracker.Window(), s.threshold)
}

// OnTick evaluates the tick against the trailing window and updates it.
func (s *VolatilityBreakout) OnTick(tick domain.Tick) (*domain.Signal, error) {
	snap := s.tracker.Snapshot(tick.Symbol)
	s.tracker.Observe(tick.Symbol, tick.Price)

	if !snap.Ready || snap.StdDev == 0 {
		return nil, nil
	}

	z := (tick.Price - snap.Mean) / snap.StdDev

	var side domain.Side
	switch {
	case z > s.threshold:
		side = domain.SideBuy
	case z < -s.threshold:
		side = domain.SideSell
	default:
		return nil, nil
	}

	return &domain.Signal{
		Symbol:      tick.Symbol,
		Side:        side,
		Quantity:    s.quantity,
		Price:       tick.Price,
		Mean:        snap.Mean,
		StdDev:      snap.StdDev,
		TimestampMs: tick.TimestampMs,
		StrategyID:  s.ID(),
	}, nil
}

var _ Strategy = (*VolatilityBreakout)(nil)
