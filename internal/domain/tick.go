package domain

import (
	"errors"
	"fmt"
)

// Tick validation errors.
var (
	ErrEmptySymbol      = errors.New("tick symbol must not be empty")
	ErrNonPositivePrice = errors.New("tick price must be positive")
	ErrNegativeVolume   = errors.New("tick volume must not be negative")
)

// Tick is a single immutable market data record: one symbol at one timestamp.
// Ticks are constructed once by an ingestion source and never mutated; they
// are passed by value through the pipeline.
type Tick struct {
	Symbol      string
	TimestampMs int64
	Price       float64
	Volume      float64
}

// NewTick constructs a validated Tick.
func NewTick(symbol string, timestampMs int64, price, volume float64) (Tick, error) {
	t := Tick{Symbol: symbol, TimestampMs: timestampMs, Price: price, Volume: volume}
	if err := t.Validate(); err != nil {
		return Tick{}, err
	}
	return t, nil
}

// Validate checks the tick's structural invariants.
func (t Tick) Validate() error {
	if t.Symbol == "" {
		return ErrEmptySymbol
	}
	if t.Price <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositivePrice, t.Price)
	}
	if t.Volume < 0 {
		return fmt.Errorf("%w: %f", ErrNegativeVolume, t.Volume)
	}
	return nil
}
