package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Config validation errors.
var (
	ErrInvalidMaxPosition = errors.New("max position size must be positive")
	ErrInvalidFailureRate = errors.New("execution failure rate must be in [0, 1]")
	ErrInvalidInitialCash = errors.New("initial cash must be positive")
	ErrInvalidSlippage    = errors.New("slippage must not be negative")
	ErrInvalidFee         = errors.New("fee per trade must not be negative")
)

// Config holds the run-level simulation parameters. Strategy parameters live
// in strategy.Config; this struct covers everything downstream of the
// strategy.
type Config struct {
	// MaxPositionSize is the absolute per-symbol position limit enforced by
	// the risk gate.
	MaxPositionSize int64

	// ExecutionFailureRate is the fraction of approved orders that fail at
	// the simulated venue, in [0, 1].
	ExecutionFailureRate float64

	// InitialCash is the starting portfolio cash.
	InitialCash decimal.Decimal

	// SlippageBps is deterministic adverse slippage in basis points.
	SlippageBps float64

	// FeePerTrade is a flat fee charged on every successful fill.
	FeePerTrade decimal.Decimal

	// Seed drives the execution failure source. Identical seeds reproduce
	// identical runs.
	Seed int64
}

// Validate checks the configuration and returns the first violation found.
func (c Config) Validate() error {
	if c.MaxPositionSize <= 0 {
		return ErrInvalidMaxPosition
	}
	if c.ExecutionFailureRate < 0 || c.ExecutionFailureRate > 1 {
		return ErrInvalidFailureRate
	}
	if !c.InitialCash.IsPositive() {
		return ErrInvalidInitialCash
	}
	if c.SlippageBps < 0 {
		return ErrInvalidSlippage
	}
	if c.FeePerTrade.IsNegative() {
		return ErrInvalidFee
	}
	return nil
}
