package strategy

import "errors"

// Factory errors.
var (
	ErrUnknownStrategyType  = errors.New("unknown strategy type")
	ErrInvalidWindowSize    = errors.New("VOLATILITY_BREAKOUT requires WindowSize > 0")
	ErrInvalidThreshold     = errors.New("VOLATILITY_BREAKOUT requires BreakoutThreshold > 0")
	ErrInvalidMAWindows     = errors.New("MOVING_AVERAGE requires 0 < ShortWindow < LongWindow")
	ErrInvalidLookback      = errors.New("MOMENTUM requires LookbackPeriod > 0")
	ErrInvalidMomentumBound = errors.New("MOMENTUM requires MomentumThreshold > 0")
	ErrInvalidOrderQuantity = errors.New("strategy requires OrderQuantity > 0")
)

// FromConfig creates a Strategy from Config, validating required parameters
// per strategy type.
func FromConfig(cfg Config) (Strategy, error) {
	if cfg.OrderQuantity <= 0 {
		return nil, ErrInvalidOrderQuantity
	}

	switch cfg.Type {
	case TypeVolatilityBreakout:
		return fromBreakoutConfig(cfg)
	case TypeMovingAverage:
		return fromMovingAverageConfig(cfg)
	case TypeMomentum:
		return fromMomentumConfig(cfg)
	case TypeBuyAndHold:
		return NewBuyAndHold(cfg.OrderQuantity), nil
	default:
		return nil, ErrUnknownStrategyType
	}
}

func fromBreakoutConfig(cfg Config) (*VolatilityBreakout, error) {
	if cfg.WindowSize <= 0 {
		return nil, ErrInvalidWindowSize
	}
	if cfg.BreakoutThreshold <= 0 {
		return nil, ErrInvalidThreshold
	}
	return NewVolatilityBreakout(cfg.WindowSize, cfg.BreakoutThreshold, cfg.OrderQuantity)
}

func fromMovingAverageConfig(cfg Config) (*MovingAverageCrossover, error) {
	if cfg.ShortWindow <= 0 || cfg.LongWindow <= cfg.ShortWindow {
		return nil, ErrInvalidMAWindows
	}
	return NewMovingAverageCrossover(cfg.ShortWindow, cfg.LongWindow, cfg.OrderQuantity)
}

func fromMomentumConfig(cfg Config) (*Momentum, error) {
	if cfg.LookbackPeriod <= 0 {
		return nil, ErrInvalidLookback
	}
	if cfg.MomentumThreshold <= 0 {
		return nil, ErrInvalidMomentumBound
	}
	return NewMomentum(cfg.LookbackPeriod, cfg.MomentumThreshold, cfg.OrderQuantity)
}
