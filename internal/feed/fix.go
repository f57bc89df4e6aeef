package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/fix"
)

// FIXFeed streams ticks from line-delimited FIX market data messages
// (35=W). Lines that are not decodable market data snapshots are counted
// and skipped.
type FIXFeed struct {
	scanner *bufio.Scanner
	skipped int
}

// NewFIXFeed wraps a reader of newline-separated FIX messages.
func NewFIXFeed(r io.Reader) *FIXFeed {
	return &FIXFeed{scanner: bufio.NewScanner(r)}
}

// Next returns the next decodable tick or io.EOF.
func (f *FIXFeed) Next(ctx context.Context) (domain.Tick, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Tick{}, err
		}
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return domain.Tick{}, fmt.Errorf("fix feed: %w", err)
			}
			return domain.Tick{}, io.EOF
		}
		line := f.scanner.Text()
		if line == "" {
			continue
		}
		tick, err := fix.DecodeMarketData(line)
		if err != nil {
			f.skipped++
			continue
		}
		return tick, nil
	}
}

// Skipped returns the number of undecodable lines dropped so far.
func (f *FIXFeed) Skipped() int { return f.skipped }

var _ Feed = (*FIXFeed)(nil)
