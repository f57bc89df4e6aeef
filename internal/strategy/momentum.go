package strategy

import (
	"fmt"

	"tradesim-lab/internal/domain"
)

// momentumState is the per-symbol momentum window.
type momentumState struct {
	prices []float64 // last lookback+1 prices, oldest first
	stance int       // -1 short, 0 flat, 1 long
}

// Momentum trades the rate of change over a lookback period: BUY when the
// return over the period exceeds the threshold, SELL when it falls below the
// negative threshold.
type Momentum struct {
	lookback  int
	threshold float64
	quantity  int64
	states    map[string]*momentumState
}

// NewMomentum creates the strategy.
func NewMomentum(lookback int, threshold float64, quantity int64) (*Momentum, error) {
	if lookback <= 0 {
		return nil, ErrInvalidLookback
	}
	return &Momentum{
		lookback:  lookback,
		threshold: threshold,
		quantity:  quantity,
		states:    make(map[string]*momentumState),
	}, nil
}

// ID returns the strategy identifier including parameters.
func (s *Momentum) ID() string {
	return fmt.Sprintf("%s_n%d_t%.3f", TypeMomentum, s.lookback, s.threshold)
}

// OnTick updates the lookback window and reports threshold crossings.
func (s *Momentum) OnTick(tick domain.Tick) (*domain.Signal, error) {
	st, ok := s.states[tick.Symbol]
	if !ok {
		st = &momentumState{}
		s.states[tick.Symbol] = st
	}

	st.prices = append(st.prices, tick.Price)
	if len(st.prices) > s.lookback+1 {
		st.prices = st.prices[1:]
	}
	if len(st.prices) < s.lookback+1 {
		return nil, nil
	}

	past := st.prices[0]
	if past == 0 {
		return nil, nil
	}
	momentum := (tick.Price - past) / past

	var side domain.Side
	switch {
	case momentum > s.threshold && st.stance <= 0:
		side = domain.SideBuy
		st.stance = 1
	case momentum < -s.threshold && st.stance >= 0:
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
		TimestampMs: tick.TimestampMs,
		StrategyID:  s.ID(),
	}, nil
}

var _ Strategy = (*Momentum)(nil)
