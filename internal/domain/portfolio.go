package domain

import "github.com/shopspring/decimal"

// EquityPoint is one sample of total portfolio value.
type EquityPoint struct {
	TimestampMs int64
	Value       decimal.Decimal
}

// Portfolio holds cash, per-symbol positions and the equity time series for
// one simulation run. Cash and positions are mutated only by the execution
// simulator; the equity series is appended only by the pipeline.
type Portfolio struct {
	InitialCash decimal.Decimal
	Cash        decimal.Decimal

	positions  map[string]*Position
	lastPrices map[string]float64
	equity     []EquityPoint
}

// NewPortfolio creates a portfolio with the given starting cash.
func NewPortfolio(initialCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		InitialCash: initialCash,
		Cash:        initialCash,
		positions:   make(map[string]*Position),
		lastPrices:  make(map[string]float64),
	}
}

// Position returns the position for a symbol, creating an empty one on first
// use.
func (p *Portfolio) Position(symbol string) *Position {
	pos, ok := p.positions[symbol]
	if !ok {
		pos = NewPosition(symbol)
		p.positions[symbol] = pos
	}
	return pos
}

// PositionSnapshot returns a copy of the position for a symbol, or an empty
// position if none exists. It never creates state.
func (p *Portfolio) PositionSnapshot(symbol string) Position {
	if pos, ok := p.positions[symbol]; ok {
		return *pos
	}
	return Position{Symbol: symbol, AvgCost: decimal.Zero}
}

// Positions returns a copy of all non-empty positions.
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		if pos.NetQuantity != 0 {
			out = append(out, *pos)
		}
	}
	return out
}

// MarkPrice records the latest observed price for a symbol, used for
// mark-to-market valuation.
func (p *Portfolio) MarkPrice(symbol string, price float64) {
	p.lastPrices[symbol] = price
}

// TotalValue returns cash plus the mark-to-market value of all positions.
func (p *Portfolio) TotalValue() decimal.Decimal {
	total := p.Cash
	for symbol, pos := range p.positions {
		if pos.NetQuantity == 0 {
			continue
		}
		last, ok := p.lastPrices[symbol]
		if !ok {
			continue
		}
		value := decimal.NewFromFloat(last).Mul(decimal.NewFromInt(pos.NetQuantity))
		total = total.Add(value)
	}
	return total
}

// AppendEquity samples the current total value into the equity series.
func (p *Portfolio) AppendEquity(timestampMs int64) {
	p.equity = append(p.equity, EquityPoint{
		TimestampMs: timestampMs,
		Value:       p.TotalValue(),
	})
}

// Equity returns the sampled equity curve in append order.
func (p *Portfolio) Equity() []EquityPoint {
	out := make([]EquityPoint, len(p.equity))
	copy(out, p.equity)
	return out
}
