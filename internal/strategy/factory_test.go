package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_Breakout(t *testing.T) {
	strat, err := FromConfig(Config{
		Type:              TypeVolatilityBreakout,
		WindowSize:        20,
		BreakoutThreshold: 2.0,
		OrderQuantity:     100,
	})
	require.NoError(t, err)
	assert.Equal(t, "VOLATILITY_BREAKOUT_w20_k2.00", strat.ID())
}

func TestFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "unknown type",
			cfg:  Config{Type: "MARTINGALE", OrderQuantity: 1},
			want: ErrUnknownStrategyType,
		},
		{
			name: "missing quantity",
			cfg:  Config{Type: TypeBuyAndHold},
			want: ErrInvalidOrderQuantity,
		},
		{
			name: "breakout without window",
			cfg:  Config{Type: TypeVolatilityBreakout, BreakoutThreshold: 1, OrderQuantity: 1},
			want: ErrInvalidWindowSize,
		},
		{
			name: "breakout without threshold",
			cfg:  Config{Type: TypeVolatilityBreakout, WindowSize: 5, OrderQuantity: 1},
			want: ErrInvalidThreshold,
		},
		{
			name: "moving average short >= long",
			cfg:  Config{Type: TypeMovingAverage, ShortWindow: 10, LongWindow: 10, OrderQuantity: 1},
			want: ErrInvalidMAWindows,
		},
		{
			name: "momentum without lookback",
			cfg:  Config{Type: TypeMomentum, MomentumThreshold: 0.02, OrderQuantity: 1},
			want: ErrInvalidLookback,
		},
		{
			name: "momentum without threshold",
			cfg:  Config{Type: TypeMomentum, LookbackPeriod: 5, OrderQuantity: 1},
			want: ErrInvalidMomentumBound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromConfig_AllTypes(t *testing.T) {
	cfgs := []Config{
		{Type: TypeVolatilityBreakout, WindowSize: 5, BreakoutThreshold: 1.5, OrderQuantity: 10},
		{Type: TypeMovingAverage, ShortWindow: 3, LongWindow: 9, OrderQuantity: 10},
		{Type: TypeMomentum, LookbackPeriod: 4, MomentumThreshold: 0.02, OrderQuantity: 10},
		{Type: TypeBuyAndHold, OrderQuantity: 10},
	}

	for _, cfg := range cfgs {
		strat, err := FromConfig(cfg)
		require.NoError(t, err, "type %s", cfg.Type)
		assert.NotEmpty(t, strat.ID())
	}
}
