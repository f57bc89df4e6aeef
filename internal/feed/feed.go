// Package feed provides tick sources for the simulation pipeline: in-memory
// slices, CSV files, generated random walks and a websocket stream.
package feed

import (
	"context"
	"io"

	"tradesim-lab/internal/domain"
)

// Feed yields ticks one at a time in source order. Next returns io.EOF when
// the feed is exhausted.
type Feed interface {
	Next(ctx context.Context) (domain.Tick, error)
}

// SliceFeed replays a fixed slice of ticks.
type SliceFeed struct {
	ticks []domain.Tick
	next  int
}

// NewSliceFeed creates a feed over the given ticks. The slice is not copied.
func NewSliceFeed(ticks []domain.Tick) *SliceFeed {
	return &SliceFeed{ticks: ticks}
}

// Next returns the next tick or io.EOF.
func (f *SliceFeed) Next(ctx context.Context) (domain.Tick, error) {
	if err := ctx.Err(); err != nil {
		return domain.Tick{}, err
	}
	if f.next >= len(f.ticks) {
		return domain.Tick{}, io.EOF
	}
	t := f.ticks[f.next]
	f.next++
	return t, nil
}

var _ Feed = (*SliceFeed)(nil)
