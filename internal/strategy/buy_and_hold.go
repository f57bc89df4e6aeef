package strategy

import (
	"fmt"

	"tradesim-lab/internal/domain"
)

// BuyAndHold buys once on the first tick of each symbol and then holds.
type BuyAndHold struct {
	quantity int64
	bought   map[string]bool
}

// NewBuyAndHold creates the strategy.
func NewBuyAndHold(quantity int64) *BuyAndHold {
	return &BuyAndHold{
		quantity: quantity,
		bought:   make(map[string]bool),
	}
}

// ID returns the strategy identifier including parameters.
func (s *BuyAndHold) ID() string {
	return fmt.Sprintf("%s_q%d", TypeBuyAndHold, s.quantity)
}

// OnTick emits a single BUY per symbol.
func (s *BuyAndHold) OnTick(tick domain.Tick) (*domain.Signal, error) {
	if s.bought[tick.Symbol] {
		return nil, nil
	}
	s.bought[tick.Symbol] = true

	return &domain.Signal{
		Symbol:      tick.Symbol,
		Side:        domain.SideBuy,
		Quantity:    s.quantity,
		Price:       tick.Price,
		TimestampMs: tick.TimestampMs,
		StrategyID:  s.ID(),
	}, nil
}

var _ Strategy = (*BuyAndHold)(nil)
