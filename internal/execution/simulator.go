// Package execution simulates order fills against a portfolio.
package execution

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim-lab/internal/domain"
)

// ErrNotValidated is returned when an order reaches the simulator without
// having passed the risk gate. This is a sequencing bug in the caller, not a
// simulated failure.
var ErrNotValidated = errors.New("order is not in VALIDATED state")

// Result describes the outcome of one execution attempt.
type Result struct {
	OrderID     string
	Symbol      string
	Status      domain.OrderStatus // EXECUTED or FAILED
	FillPrice   float64
	Notional    decimal.Decimal // fill price * quantity, unsigned
	Fee         decimal.Decimal
	Reason      string // failure reason, empty on success
	TimestampMs int64
}

// Config holds the execution model parameters.
type Config struct {
	// SlippageBps is deterministic adverse slippage in basis points:
	// buys fill above the requested price, sells below.
	SlippageBps float64
	// FeePerTrade is a flat fee charged on every successful fill.
	FeePerTrade decimal.Decimal
}

// Simulator models fills, applying the failure policy first and mutating
// position and cash only on success. It is the sole writer of portfolio
// state.
type Simulator struct {
	portfolio *domain.Portfolio
	policy    FailurePolicy
	cfg       Config
}

// NewSimulator creates a simulator bound to a portfolio.
func NewSimulator(portfolio *domain.Portfolio, policy FailurePolicy, cfg Config) *Simulator {
	if policy == nil {
		policy = NoFailures{}
	}
	return &Simulator{portfolio: portfolio, policy: policy, cfg: cfg}
}

// Execute attempts to fill a validated order at the current tick.
//
// On a simulated failure the order transitions to FAILED and the portfolio
// is left untouched. On success the order transitions to EXECUTED, the
// symbol position absorbs the fill and cash moves by the signed notional
// plus fee. A non-nil error means a lifecycle invariant was broken and the
// run must abort.
func (s *Simulator) Execute(order *domain.Order, tick domain.Tick) (*Result, error) {
	if order.Status != domain.StatusValidated {
		return nil, fmt.Errorf("%w: order %s is %s", ErrNotValidated, order.ID, order.Status)
	}

	if fail, reason := s.policy.ShouldFail(order.ID); fail {
		if err := order.Transition(domain.StatusFailed, tick.TimestampMs); err != nil {
			return nil, err
		}
		return &Result{
			OrderID:     order.ID,
			Symbol:      order.Symbol,
			Status:      domain.StatusFailed,
			Reason:      reason,
			TimestampMs: tick.TimestampMs,
		}, nil
	}

	fillPrice := s.fillPrice(order)
	price := decimal.NewFromFloat(fillPrice)
	notional := price.Mul(decimal.NewFromInt(order.Quantity))

	if err := order.Transition(domain.StatusExecuted, tick.TimestampMs); err != nil {
		return nil, err
	}

	s.portfolio.Position(order.Symbol).ApplyFill(order.SignedQuantity(), price)

	if order.Side == domain.SideBuy {
		s.portfolio.Cash = s.portfolio.Cash.Sub(notional).Sub(s.cfg.FeePerTrade)
	} else {
		s.portfolio.Cash = s.portfolio.Cash.Add(notional).Sub(s.cfg.FeePerTrade)
	}

	return &Result{
		OrderID:     order.ID,
		Symbol:      order.Symbol,
		Status:      domain.StatusExecuted,
		FillPrice:   fillPrice,
		Notional:    notional,
		Fee:         s.cfg.FeePerTrade,
		TimestampMs: tick.TimestampMs,
	}, nil
}

// fillPrice applies deterministic adverse slippage to the requested price.
func (s *Simulator) fillPrice(order *domain.Order) float64 {
	if s.cfg.SlippageBps == 0 {
		return order.RequestedPrice
	}
	adj := s.cfg.SlippageBps / 10000
	if order.Side == domain.SideBuy {
		return order.RequestedPrice * (1 + adj)
	}
	return order.RequestedPrice * (1 - adj)
}
