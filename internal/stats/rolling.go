// Package stats maintains per-symbol trailing price windows and derives the
// rolling mean and standard deviation used for breakout detection.
package stats

import (
	"errors"
	"math"
)

// ErrInvalidWindow is returned when a tracker is created with a non-positive
// window size.
var ErrInvalidWindow = errors.New("window size must be positive")

// recomputeInterval is how many observations a symbol may accumulate before
// the incremental sum and sum-of-squares are recomputed exactly from the
// window contents. Incremental add/subtract of float64 accumulates drift
// over long feeds; periodic exact recomputation bounds it.
const recomputeInterval = 256

// Snapshot is the derived state of one symbol's window.
// Ready is false until the window holds at least its full size.
type Snapshot struct {
	Mean   float64
	StdDev float64
	Ready  bool
	Count  int
}

// windowState is a fixed-capacity FIFO ring of recent prices with
// incrementally maintained aggregates.
type windowState struct {
	prices   []float64
	head     int
	count    int
	sum      float64
	sumSq    float64
	observed int
}

// Tracker maintains one trailing window per symbol.
// Standard deviation uses the population formula over the current window.
type Tracker struct {
	window int
	states map[string]*windowState
}

// NewTracker creates a tracker with the given window size.
func NewTracker(window int) (*Tracker, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &Tracker{
		window: window,
		states: make(map[string]*windowState),
	}, nil
}

// Window returns the configured window size.
func (t *Tracker) Window() int {
	return t.window
}

// Observe pushes a price into the symbol's window, evicting the oldest entry
// once the window is full, and returns the snapshot including the new price.
func (t *Tracker) Observe(symbol string, price float64) Snapshot {
	s, ok := t.states[symbol]
	if !ok {
		s = &windowState{prices: make([]float64, t.window)}
		t.states[symbol] = s
	}

	if s.count == t.window {
		oldest := s.prices[s.head]
		s.sum -= oldest
		s.sumSq -= oldest * oldest
	} else {
		s.count++
	}
	s.prices[s.head] = price
	s.head = (s.head + 1) % t.window
	s.sum += price
	s.sumSq += price * price

	s.observed++
	if s.observed%recomputeInterval == 0 {
		s.recompute()
	}

	return t.snapshot(s)
}

// Snapshot returns the symbol's current window state without observing a new
// price. Unknown symbols yield a zero, not-ready snapshot.
func (t *Tracker) Snapshot(symbol string) Snapshot {
	s, ok := t.states[symbol]
	if !ok {
		return Snapshot{}
	}
	return t.snapshot(s)
}

func (t *Tracker) snapshot(s *windowState) Snapshot {
	if s.count == 0 {
		return Snapshot{}
	}
	n := float64(s.count)
	mean := s.sum / n
	variance := s.sumSq/n - mean*mean
	if variance < 0 {
		// Float cancellation can push a near-zero variance slightly negative.
		variance = 0
	}
	return Snapshot{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Ready:  s.count >= t.window,
		Count:  s.count,
	}
}

// recompute rebuilds the aggregates exactly from the window contents.
func (s *windowState) recompute() {
	var sum, sumSq float64
	for i := 0; i < s.count; i++ {
		p := s.prices[i]
		sum += p
		sumSq += p * p
	}
	s.sum = sum
	s.sumSq = sumSq
}
