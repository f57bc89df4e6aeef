package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPosition_ApplyFill_VWAPOnSameDirection(t *testing.T) {
	pos := NewPosition("X")

	pos.ApplyFill(10, d("100"))
	assert.Equal(t, int64(10), pos.NetQuantity)
	assert.True(t, pos.AvgCost.Equal(d("100")))

	// 10 @ 100 + 10 @ 200 -> 20 @ 150.
	pos.ApplyFill(10, d("200"))
	assert.Equal(t, int64(20), pos.NetQuantity)
	assert.True(t, pos.AvgCost.Equal(d("150")), "avg cost = %s", pos.AvgCost)
}

func TestPosition_ApplyFill_ReductionKeepsAvgCost(t *testing.T) {
	pos := NewPosition("X")
	pos.ApplyFill(20, d("150"))

	pos.ApplyFill(-5, d("300"))
	assert.Equal(t, int64(15), pos.NetQuantity)
	assert.True(t, pos.AvgCost.Equal(d("150")), "reducing must not reprice the remainder")
}

func TestPosition_ApplyFill_FlatResetsAvgCost(t *testing.T) {
	pos := NewPosition("X")
	pos.ApplyFill(10, d("100"))
	pos.ApplyFill(-10, d("120"))

	assert.Equal(t, int64(0), pos.NetQuantity)
	assert.True(t, pos.AvgCost.IsZero())
}

func TestPosition_ApplyFill_FlipUsesFillPrice(t *testing.T) {
	pos := NewPosition("X")
	pos.ApplyFill(10, d("100"))

	// Sell 15: close the long and open a 5-lot short at the fill price.
	pos.ApplyFill(-15, d("90"))
	assert.Equal(t, int64(-5), pos.NetQuantity)
	assert.True(t, pos.AvgCost.Equal(d("90")), "avg cost = %s", pos.AvgCost)
}

func TestPosition_ApplyFill_ShortSide(t *testing.T) {
	pos := NewPosition("X")

	pos.ApplyFill(-10, d("50"))
	assert.Equal(t, int64(-10), pos.NetQuantity)
	assert.True(t, pos.AvgCost.Equal(d("50")))

	// -10 @ 50 + -10 @ 70 -> -20 @ 60.
	pos.ApplyFill(-10, d("70"))
	assert.Equal(t, int64(-20), pos.NetQuantity)
	assert.True(t, pos.AvgCost.Equal(d("60")), "avg cost = %s", pos.AvgCost)
}
