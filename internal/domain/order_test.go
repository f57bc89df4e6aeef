package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("o1", "BTCUSD", SideBuy, 10, 42000, 1000)
	require.NoError(t, err)
	return order
}

func TestNewOrder_Validation(t *testing.T) {
	cases := []struct {
		name     string
		symbol   string
		side     Side
		quantity int64
		price    float64
		want     error
	}{
		{"empty symbol", "", SideBuy, 1, 1, ErrEmptySymbol},
		{"bad side", "X", Side("HOLD"), 1, 1, ErrInvalidSide},
		{"zero quantity", "X", SideBuy, 0, 1, ErrInvalidQuantity},
		{"negative quantity", "X", SideSell, -5, 1, ErrInvalidQuantity},
		{"zero price", "X", SideBuy, 1, 0, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder("id", tc.symbol, tc.side, tc.quantity, tc.price, 1000)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOrder_LifecycleHappyPath(t *testing.T) {
	order := newTestOrder(t)
	assert.Equal(t, StatusNew, order.Status)
	assert.False(t, order.Terminal())

	require.NoError(t, order.Transition(StatusValidated, 2000))
	assert.Equal(t, StatusValidated, order.Status)
	assert.Equal(t, int64(2000), order.UpdatedAtMs)

	require.NoError(t, order.Transition(StatusExecuted, 3000))
	assert.True(t, order.Terminal())
}

func TestOrder_RejectionPath(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Transition(StatusRejected, 2000))
	assert.True(t, order.Terminal())
}

func TestOrder_FailurePath(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Transition(StatusValidated, 2000))
	require.NoError(t, order.Transition(StatusFailed, 3000))
	assert.True(t, order.Terminal())
}

func TestOrder_InvalidTransitions(t *testing.T) {
	// NEW cannot jump straight to EXECUTED or FAILED.
	order := newTestOrder(t)
	assert.ErrorIs(t, order.Transition(StatusExecuted, 2000), ErrInvalidTransition)
	assert.ErrorIs(t, order.Transition(StatusFailed, 2000), ErrInvalidTransition)
	assert.Equal(t, StatusNew, order.Status, "failed transition must not change state")

	// VALIDATED cannot go back or be rejected.
	require.NoError(t, order.Transition(StatusValidated, 2000))
	assert.ErrorIs(t, order.Transition(StatusNew, 3000), ErrInvalidTransition)
	assert.ErrorIs(t, order.Transition(StatusRejected, 3000), ErrInvalidTransition)
}

func TestOrder_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusExecuted, StatusRejected, StatusFailed} {
		t.Run(string(terminal), func(t *testing.T) {
			order := newTestOrder(t)
			switch terminal {
			case StatusRejected:
				require.NoError(t, order.Transition(StatusRejected, 2000))
			case StatusExecuted:
				require.NoError(t, order.Transition(StatusValidated, 2000))
				require.NoError(t, order.Transition(StatusExecuted, 3000))
			case StatusFailed:
				require.NoError(t, order.Transition(StatusValidated, 2000))
				require.NoError(t, order.Transition(StatusFailed, 3000))
			}

			for _, next := range []OrderStatus{StatusNew, StatusValidated, StatusExecuted, StatusRejected, StatusFailed} {
				assert.ErrorIs(t, order.Transition(next, 4000), ErrInvalidTransition)
			}
		})
	}
}

func TestOrder_SignedQuantity(t *testing.T) {
	buy, err := NewOrder("b", "X", SideBuy, 7, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(7), buy.SignedQuantity())

	sell, err := NewOrder("s", "X", SideSell, 7, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), sell.SignedQuantity())
}
