// Package strategy turns market data ticks into directional trading signals.
package strategy

import "tradesim-lab/internal/domain"

// Strategy consumes ticks one at a time and emits at most one signal per
// tick. Implementations are pure functions of their own accumulated state
// and the current tick: they never read portfolio or position data.
type Strategy interface {
	// OnTick updates internal state with the tick and returns a signal, or
	// nil when the tick produces no action.
	OnTick(tick domain.Tick) (*domain.Signal, error)

	// ID returns the strategy identifier including parameters.
	ID() string
}

// Strategy type constants.
const (
	TypeVolatilityBreakout = "VOLATILITY_BREAKOUT"
	TypeMovingAverage      = "MOVING_AVERAGE"
	TypeMomentum           = "MOMENTUM"
	TypeBuyAndHold         = "BUY_AND_HOLD"
)

// Config selects a strategy type and its parameters.
type Config struct {
	Type string

	// VOLATILITY_BREAKOUT parameters
	WindowSize        int
	BreakoutThreshold float64

	// MOVING_AVERAGE parameters
	ShortWindow int
	LongWindow  int

	// MOMENTUM parameters
	LookbackPeriod    int
	MomentumThreshold float64

	// Common parameters
	OrderQuantity int64
}
