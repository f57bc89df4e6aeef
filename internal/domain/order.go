package domain

import (
	"errors"
	"fmt"
)

// Side represents an order direction.
type Side string

// Side constants.
const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderStatus represents a state in the order lifecycle.
type OrderStatus string

// Order lifecycle states. An order starts in NEW and only ever moves
// forward: NEW -> VALIDATED -> {EXECUTED | FAILED}, or NEW -> REJECTED.
const (
	StatusNew       OrderStatus = "NEW"
	StatusValidated OrderStatus = "VALIDATED"
	StatusExecuted  OrderStatus = "EXECUTED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusFailed    OrderStatus = "FAILED"
)

// Order errors.
var (
	// ErrInvalidTransition indicates an attempted transition that the order
	// lifecycle does not allow, including any transition out of a terminal
	// state. Callers must treat it as an invariant violation, not skip it.
	ErrInvalidTransition = errors.New("invalid order state transition")

	ErrInvalidSide     = errors.New("order side must be BUY or SELL")
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	ErrInvalidPrice    = errors.New("order price must be positive")
)

// allowedTransitions defines the forward-only order state machine.
// Terminal states (EXECUTED, REJECTED, FAILED) are absent: nothing may
// leave them.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusNew:       {StatusValidated, StatusRejected},
	StatusValidated: {StatusExecuted, StatusFailed},
}

// Order is a mutable trading order. Only Status and UpdatedAtMs change after
// construction, and only through Transition.
type Order struct {
	ID             string
	Symbol         string
	Side           Side
	Quantity       int64
	RequestedPrice float64
	Status         OrderStatus
	CreatedAtMs    int64
	UpdatedAtMs    int64
}

// NewOrder constructs a validated order in the NEW state.
func NewOrder(id, symbol string, side Side, quantity int64, price float64, timestampMs int64) (*Order, error) {
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if side != SideBuy && side != SideSell {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidPrice, price)
	}

	return &Order{
		ID:             id,
		Symbol:         symbol,
		Side:           side,
		Quantity:       quantity,
		RequestedPrice: price,
		Status:         StatusNew,
		CreatedAtMs:    timestampMs,
		UpdatedAtMs:    timestampMs,
	}, nil
}

// Transition moves the order to next if the lifecycle allows it.
// Returns ErrInvalidTransition otherwise; the order is left unchanged.
func (o *Order) Transition(next OrderStatus, timestampMs int64) error {
	allowed, ok := allowedTransitions[o.Status]
	if !ok {
		return fmt.Errorf("%w: %s is terminal, cannot move to %s (order %s)",
			ErrInvalidTransition, o.Status, next, o.ID)
	}
	for _, s := range allowed {
		if s == next {
			o.Status = next
			o.UpdatedAtMs = timestampMs
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s (order %s)", ErrInvalidTransition, o.Status, next, o.ID)
}

// Terminal reports whether the order is in a terminal state.
func (o *Order) Terminal() bool {
	_, ok := allowedTransitions[o.Status]
	return !ok
}

// SignedQuantity returns the quantity signed by side: positive for BUY,
// negative for SELL.
func (o *Order) SignedQuantity() int64 {
	if o.Side == SideSell {
		return -o.Quantity
	}
	return o.Quantity
}
