package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"tradesim-lab/internal/domain"
)

// ErrBadHeader is returned when a CSV source does not start with the
// expected header row.
var ErrBadHeader = errors.New("csv feed: bad header")

var csvHeader = []string{"symbol", "timestamp_ms", "price", "volume"}

// CSVFeed streams ticks from a CSV source with the header
// symbol,timestamp_ms,price,volume. Malformed rows are counted and skipped
// rather than failing the feed.
type CSVFeed struct {
	reader  *csv.Reader
	skipped int
	started bool
}

// NewCSVFeed wraps a CSV reader. The header row is validated on the first
// call to Next.
func NewCSVFeed(r io.Reader) *CSVFeed {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &CSVFeed{reader: cr}
}

// Next returns the next valid tick, io.EOF at end of input, or ErrBadHeader
// if the header row is wrong.
func (f *CSVFeed) Next(ctx context.Context) (domain.Tick, error) {
	if !f.started {
		f.started = true
		header, err := f.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.Tick{}, io.EOF
			}
			return domain.Tick{}, fmt.Errorf("csv feed: read header: %w", err)
		}
		if !headerMatches(header) {
			return domain.Tick{}, fmt.Errorf("%w: got %v", ErrBadHeader, header)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return domain.Tick{}, err
		}
		record, err := f.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.Tick{}, io.EOF
			}
			// csv.Reader reports structural problems per row; treat them
			// like any other malformed row.
			f.skipped++
			continue
		}

		tick, ok := f.parse(record)
		if !ok {
			f.skipped++
			continue
		}
		return tick, nil
	}
}

// Skipped returns the number of malformed rows dropped so far.
func (f *CSVFeed) Skipped() int { return f.skipped }

func (f *CSVFeed) parse(record []string) (domain.Tick, bool) {
	if len(record) != 4 {
		return domain.Tick{}, false
	}
	timestampMs, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return domain.Tick{}, false
	}
	price, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return domain.Tick{}, false
	}
	volume, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return domain.Tick{}, false
	}
	tick, err := domain.NewTick(record[0], timestampMs, price, volume)
	if err != nil {
		return domain.Tick{}, false
	}
	return tick, true
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, h := range header {
		if h != csvHeader[i] {
			return false
		}
	}
	return true
}

// WriteCSV writes ticks to w in the format CSVFeed reads.
func WriteCSV(w io.Writer, ticks []domain.Tick) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv feed: write header: %w", err)
	}
	for _, t := range ticks {
		record := []string{
			t.Symbol,
			strconv.FormatInt(t.TimestampMs, 10),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatFloat(t.Volume, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv feed: write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var _ Feed = (*CSVFeed)(nil)
