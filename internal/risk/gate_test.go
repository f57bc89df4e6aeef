package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim-lab/internal/domain"
)

func makeOrder(t *testing.T, side domain.Side, qty int64) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("o1", "X", side, qty, 10.0, 1000)
	require.NoError(t, err)
	return order
}

func TestNewGate_InvalidLimit(t *testing.T) {
	_, err := NewGate(0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestGate_ApprovesWithinLimit(t *testing.T) {
	gate, err := NewGate(100)
	require.NoError(t, err)

	decision := gate.Check(makeOrder(t, domain.SideBuy, 100), domain.Position{Symbol: "X"})
	assert.True(t, decision.Approved)
	assert.Empty(t, decision.Reason)
	assert.Equal(t, int64(100), decision.ResultingQuantity)
}

func TestGate_RejectsLimitBreach(t *testing.T) {
	// Current position 90, limit 100: a BUY of 20 would reach 110.
	gate, err := NewGate(100)
	require.NoError(t, err)

	current := domain.Position{Symbol: "X", NetQuantity: 90}
	decision := gate.Check(makeOrder(t, domain.SideBuy, 20), current)

	assert.False(t, decision.Approved)
	assert.Contains(t, decision.Reason, "exceed limit")
	assert.Equal(t, int64(110), decision.ResultingQuantity)
}

func TestGate_ShortSideLimit(t *testing.T) {
	gate, err := NewGate(100)
	require.NoError(t, err)

	current := domain.Position{Symbol: "X", NetQuantity: -95}
	decision := gate.Check(makeOrder(t, domain.SideSell, 10), current)
	assert.False(t, decision.Approved)

	decision = gate.Check(makeOrder(t, domain.SideSell, 5), current)
	assert.True(t, decision.Approved)
	assert.Equal(t, int64(-100), decision.ResultingQuantity)
}

func TestGate_SellReducesLongApproved(t *testing.T) {
	gate, err := NewGate(100)
	require.NoError(t, err)

	current := domain.Position{Symbol: "X", NetQuantity: 100}
	decision := gate.Check(makeOrder(t, domain.SideSell, 150), current)

	assert.True(t, decision.Approved)
	assert.Equal(t, int64(-50), decision.ResultingQuantity)
}

func TestGate_RejectsNonPositiveQuantity(t *testing.T) {
	gate, err := NewGate(100)
	require.NoError(t, err)

	// Construct the invalid order directly: NewOrder would refuse it.
	order := &domain.Order{ID: "bad", Symbol: "X", Side: domain.SideBuy, Quantity: 0}
	decision := gate.Check(order, domain.Position{Symbol: "X"})

	assert.False(t, decision.Approved)
	assert.Contains(t, decision.Reason, "non-positive quantity")
}
