package strategy

import (
	"fmt"

	"tradesim-lab/internal/domain"
)

// maState is the per-symbol crossover state.
type maState struct {
	prices    []float64 // last longWindow prices, oldest first
	prevShort float64
	prevLong  float64
	havePrev  bool
	stance    int // -1 short, 0 flat, 1 long
}

// MovingAverageCrossover emits BUY when the short moving average crosses
// above the long one (golden cross) and SELL on the opposite cross.
type MovingAverageCrossover struct {
	shortWindow int
	longWindow  int
	quantity    int64
	states      map[string]*maState
}

// NewMovingAverageCrossover creates the strategy; shortWindow must be
// strictly smaller than longWindow.
func NewMovingAverageCrossover(shortWindow, longWindow int, quantity int64) (*MovingAverageCrossover, error) {
	if shortWindow <= 0 || longWindow <= shortWindow {
		return nil, ErrInvalidMAWindows
	}
	return &MovingAverageCrossover{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		quantity:    quantity,
		states:      make(map[string]*maState),
	}, nil
}

// ID returns the strategy identifier including parameters.
func (s *MovingAverageCrossover) ID() string {
	return fmt.Sprintf("%s_s%d_l%d", TypeMovingAverage, s.shortWindow, s.longWindow)
}

// OnTick updates the symbol's moving averages and reports crossovers.
func (s *MovingAverageCrossover) OnTick(tick domain.Tick) (*domain.Signal, error) {
	st, ok := s.states[tick.Symbol]
	if !ok {
		st = &maState{}
		s.states[tick.Symbol] = st
	}

	st.prices = append(st.prices, tick.Price)
	if len(st.prices) > s.longWindow {
		st.prices = st.prices[1:]
	}
	if len(st.prices) < s.longWindow {
		return nil, nil
	}

	shortMA := mean(st.prices[len(st.prices)-s.shortWindow:])
	longMA := mean(st.prices)

	defer func() {
		st.prevShort = shortMA
		st.prevLong = longMA
		st.havePrev = true
	}()

	if !st.havePrev {
		return nil, nil
	}

	prevAbove := st.prevShort > st.prevLong
	currAbove := shortMA > longMA

	var side domain.Side
	switch {
	case !prevAbove && currAbove && st.stance <= 0:
		side = domain.SideBuy
		st.stance = 1
	case prevAbove && !currAbove && st.stance >= 0:
		side = domain.SideSell
		st.stance = -1
	default:
		return nil, nil
	}

	return &domain.Signal{
		Symbol:      tick.Symbol,
		Side:        side,
		Quantity:    s.quantity,
		Price:       tick.Price,
		Mean:        longMA,
		TimestampMs: tick.TimestampMs,
		StrategyID:  s.ID(),
	}, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

var _ Strategy = (*MovingAverageCrossover)(nil)
