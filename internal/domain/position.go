package domain

import "github.com/shopspring/decimal"

// Position is the net signed holding in one symbol. It is created lazily on
// the first fill for a symbol and mutated only by the execution simulator.
type Position struct {
	Symbol      string
	NetQuantity int64
	AvgCost     decimal.Decimal
}

// NewPosition creates an empty position for a symbol.
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol, AvgCost: decimal.Zero}
}

// ApplyFill updates the position with a signed fill quantity at the given
// price. Same-direction fills blend the volume-weighted average cost;
// opposite-direction fills reduce the position and keep the average, and a
// fill through zero resets the average to the fill price of the remainder.
func (p *Position) ApplyFill(signedQty int64, price decimal.Decimal) {
	if signedQty == 0 {
		return
	}

	prev := p.NetQuantity
	next := prev + signedQty

	switch {
	case prev == 0:
		p.AvgCost = price
	case (prev > 0) == (signedQty > 0):
		// Same direction: volume-weighted average over the combined size.
		prevAbs := decimal.NewFromInt(abs64(prev))
		fillAbs := decimal.NewFromInt(abs64(signedQty))
		total := p.AvgCost.Mul(prevAbs).Add(price.Mul(fillAbs))
		p.AvgCost = total.Div(prevAbs.Add(fillAbs))
	case next == 0:
		p.AvgCost = decimal.Zero
	case (prev > 0) != (next > 0):
		// Flipped through zero: the surviving side was opened at this fill.
		p.AvgCost = price
	}
	// Pure reduction keeps the existing average cost.

	p.NetQuantity = next
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
