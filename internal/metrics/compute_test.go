package metrics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tradesim-lab/internal/domain"
)

func TestComputeFromValues_TotalReturn(t *testing.T) {
	perf := ComputeFromValues([]float64{100, 110, 121})
	assert.InDelta(t, 0.21, perf.TotalReturn, 1e-9)
	assert.Equal(t, 100.0, perf.InitialValue)
	assert.Equal(t, 121.0, perf.FinalValue)
	assert.Equal(t, 3, perf.Samples)
}

func TestComputeFromValues_FlatCurveHasZeroSharpe(t *testing.T) {
	perf := ComputeFromValues([]float64{100, 100, 100, 100})
	assert.Equal(t, 0.0, perf.Sharpe)
	assert.Equal(t, 0.0, perf.TotalReturn)
	assert.Equal(t, 0.0, perf.MaxDrawdown)
}

func TestComputeFromValues_Sharpe(t *testing.T) {
	// Returns: +10%, -10%. Mean = 0, so Sharpe = 0 despite variance.
	perf := ComputeFromValues([]float64{100, 110, 99})
	assert.InDelta(t, 0.0, perf.Sharpe, 1e-9)

	// Returns: +10%, +20%. Mean 0.15, population std 0.05.
	perf = ComputeFromValues([]float64{100, 110, 132})
	want := 0.15 / 0.05 * math.Sqrt(252)
	assert.InDelta(t, want, perf.Sharpe, 1e-9)
}

func TestComputeFromValues_MaxDrawdown(t *testing.T) {
	// Peak 120, trough 90: drawdown = 30/120 = 0.25.
	perf := ComputeFromValues([]float64{100, 120, 90, 110})
	assert.InDelta(t, 0.25, perf.MaxDrawdown, 1e-9)

	// Monotonic curve never draws down.
	perf = ComputeFromValues([]float64{100, 105, 110})
	assert.Equal(t, 0.0, perf.MaxDrawdown)
}

func TestComputeFromValues_DegenerateInputs(t *testing.T) {
	assert.Equal(t, Performance{}, ComputeFromValues(nil))

	perf := ComputeFromValues([]float64{42})
	assert.Equal(t, 1, perf.Samples)
	assert.Equal(t, 42.0, perf.InitialValue)
	assert.Equal(t, 42.0, perf.FinalValue)
	assert.Equal(t, 0.0, perf.Sharpe)
}

func TestCompute_FromEquityPoints(t *testing.T) {
	equity := []domain.EquityPoint{
		{TimestampMs: 1000, Value: decimal.NewFromInt(100)},
		{TimestampMs: 2000, Value: decimal.NewFromInt(110)},
		{TimestampMs: 3000, Value: decimal.NewFromInt(121)},
	}
	perf := Compute(equity)
	assert.InDelta(t, 0.21, perf.TotalReturn, 1e-9)
}
