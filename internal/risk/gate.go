// Package risk gates proposed orders against position limits before they
// reach execution.
package risk

import (
	"errors"
	"fmt"

	"tradesim-lab/internal/domain"
)

// ErrInvalidLimit is returned when a gate is created with a non-positive
// position limit.
var ErrInvalidLimit = errors.New("max position size must be positive")

// Decision is the outcome of a risk check.
type Decision struct {
	Approved          bool
	Reason            string // rejection reason, empty when approved
	ResultingQuantity int64  // net position if the order filled in full
}

// Gate checks order candidates against the configured maximum absolute
// position per symbol. The caller must apply the check and the subsequent
// execution for a symbol as one unit, without interleaving another check
// for the same symbol in between.
type Gate struct {
	maxPosition int64
}

// NewGate creates a gate with the given absolute position limit.
func NewGate(maxPosition int64) (*Gate, error) {
	if maxPosition <= 0 {
		return nil, ErrInvalidLimit
	}
	return &Gate{maxPosition: maxPosition}, nil
}

// MaxPosition returns the configured limit.
func (g *Gate) MaxPosition() int64 {
	return g.maxPosition
}

// Check evaluates an order candidate against the current position. It
// computes the position that would result from a full fill and rejects the
// order if its magnitude would exceed the limit.
func (g *Gate) Check(order *domain.Order, current domain.Position) Decision {
	if order.Quantity <= 0 {
		return Decision{
			Reason:            fmt.Sprintf("non-positive quantity %d", order.Quantity),
			ResultingQuantity: current.NetQuantity,
		}
	}

	resulting := current.NetQuantity + order.SignedQuantity()
	if abs64(resulting) > g.maxPosition {
		return Decision{
			Reason: fmt.Sprintf("position %d would exceed limit %d (current %d)",
				resulting, g.maxPosition, current.NetQuantity),
			ResultingQuantity: resulting,
		}
	}

	return Decision{Approved: true, ResultingQuantity: resulting}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
