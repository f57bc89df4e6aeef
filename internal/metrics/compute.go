// Package metrics computes performance statistics from equity curves.
package metrics

import (
	"math"

	"tradesim-lab/internal/domain"
)

// tradingDaysPerYear is the annualization factor for the Sharpe ratio.
const tradingDaysPerYear = 252

// Performance summarizes one run's equity curve.
type Performance struct {
	InitialValue float64
	FinalValue   float64

	// TotalReturn is final/initial - 1.
	TotalReturn float64

	// Sharpe is the annualized Sharpe ratio of per-sample returns with a
	// zero risk-free rate. Zero when return variance is zero.
	Sharpe float64

	// MaxDrawdown is the worst peak-to-trough decline as a fraction of the
	// peak, in [0, 1].
	MaxDrawdown float64

	Samples int
}

// Compute calculates performance from an equity curve in chronological
// order. Fewer than two samples yields zero-valued metrics apart from the
// endpoint fields.
func Compute(equity []domain.EquityPoint) Performance {
	values := make([]float64, len(equity))
	for i, p := range equity {
		values[i] = p.Value.InexactFloat64()
	}
	return ComputeFromValues(values)
}

// ComputeFromValues is Compute over raw equity values.
func ComputeFromValues(values []float64) Performance {
	perf := Performance{Samples: len(values)}
	if len(values) == 0 {
		return perf
	}

	perf.InitialValue = values[0]
	perf.FinalValue = values[len(values)-1]
	if perf.InitialValue != 0 {
		perf.TotalReturn = perf.FinalValue/perf.InitialValue - 1
	}
	if len(values) < 2 {
		return perf
	}

	returns := periodicReturns(values)
	mean := computeMean(returns)
	stddev := computeStddev(returns, mean)
	if stddev > 0 {
		perf.Sharpe = mean / stddev * math.Sqrt(tradingDaysPerYear)
	}
	perf.MaxDrawdown = computeMaxDrawdown(values)
	return perf
}

// periodicReturns computes simple per-sample returns. Samples following a
// zero value contribute a zero return.
func periodicReturns(values []float64) []float64 {
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, values[i]/values[i-1]-1)
	}
	return returns
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates the population standard deviation (n
// denominator), matching the rolling statistics used by the strategies.
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}

// computeMaxDrawdown calculates the worst peak-to-trough decline as a
// fraction of the running peak. Values must be in chronological order.
func computeMaxDrawdown(values []float64) float64 {
	peak := values[0]
	maxDrawdown := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - v) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}
