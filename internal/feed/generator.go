package feed

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"

	"tradesim-lab/internal/domain"
)

// Generator configuration errors.
var (
	ErrNoSymbols     = errors.New("generator: at least one symbol is required")
	ErrBadStartPrice = errors.New("generator: start price must be positive")
	ErrBadTickCount  = errors.New("generator: tick count must be positive")
	ErrBadIntervalMs = errors.New("generator: interval must be positive")
	ErrBadVolatility = errors.New("generator: volatility must not be negative")
)

// GeneratorConfig parameterizes a geometric random walk.
type GeneratorConfig struct {
	Symbols    []string
	StartPrice float64
	// Drift is the per-step expected log return.
	Drift float64
	// Volatility is the per-step log return standard deviation.
	Volatility float64
	// IntervalMs is the spacing between consecutive timestamps.
	IntervalMs int64
	// StartMs is the timestamp of the first tick.
	StartMs int64
	// Count is the number of ticks to emit per symbol.
	Count int
	Seed  int64
}

// Generator produces a seeded geometric random walk per symbol, interleaved
// with strictly non-decreasing timestamps. Identical configs produce
// identical tick streams.
type Generator struct {
	cfg    GeneratorConfig
	rng    *rand.Rand
	prices map[string]float64
	step   int
	sym    int
}

// NewGenerator validates the config and creates a generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if len(cfg.Symbols) == 0 {
		return nil, ErrNoSymbols
	}
	if cfg.StartPrice <= 0 {
		return nil, ErrBadStartPrice
	}
	if cfg.Count <= 0 {
		return nil, ErrBadTickCount
	}
	if cfg.IntervalMs <= 0 {
		return nil, ErrBadIntervalMs
	}
	if cfg.Volatility < 0 {
		return nil, ErrBadVolatility
	}

	prices := make(map[string]float64, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		prices[s] = cfg.StartPrice
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		prices: prices,
	}, nil
}

// Next returns the next generated tick or io.EOF after Count steps per
// symbol.
func (g *Generator) Next(ctx context.Context) (domain.Tick, error) {
	if err := ctx.Err(); err != nil {
		return domain.Tick{}, err
	}
	if g.step >= g.cfg.Count {
		return domain.Tick{}, io.EOF
	}

	symbol := g.cfg.Symbols[g.sym]
	price := g.prices[symbol] * math.Exp(g.cfg.Drift+g.cfg.Volatility*g.rng.NormFloat64())
	g.prices[symbol] = price

	tick := domain.Tick{
		Symbol:      symbol,
		TimestampMs: g.cfg.StartMs + int64(g.step)*g.cfg.IntervalMs,
		Price:       price,
		Volume:      1 + g.rng.Float64()*99,
	}

	g.sym++
	if g.sym == len(g.cfg.Symbols) {
		g.sym = 0
		g.step++
	}
	return tick, nil
}

// All drains the generator into a slice.
func (g *Generator) All(ctx context.Context) ([]domain.Tick, error) {
	out := make([]domain.Tick, 0, g.cfg.Count*len(g.cfg.Symbols))
	for {
		tick, err := g.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, tick)
	}
}

var _ Feed = (*Generator)(nil)
