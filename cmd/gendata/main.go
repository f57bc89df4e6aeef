package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"tradesim-lab/internal/feed"
)

func main() {
	symbols := flag.String("symbols", "SYMA", "Comma-separated symbols")
	tickCount := flag.Int("ticks", 1000, "Ticks per symbol")
	startPrice := flag.Float64("start-price", 100.0, "Walk start price")
	drift := flag.Float64("drift", 0.0, "Per-step drift")
	volatility := flag.Float64("volatility", 0.01, "Per-step volatility")
	intervalMs := flag.Int64("interval-ms", 1000, "Tick spacing (ms)")
	startMs := flag.Int64("start-ms", 1, "Timestamp of the first tick (ms)")
	seed := flag.Int64("seed", 42, "Generator seed")
	outPath := flag.String("out", "", "Output CSV file (default stdout)")

	flag.Parse()

	logger := log.New(os.Stderr, "[gendata] ", log.LstdFlags)

	gen, err := feed.NewGenerator(feed.GeneratorConfig{
		Symbols:    strings.Split(*symbols, ","),
		StartPrice: *startPrice,
		Drift:      *drift,
		Volatility: *volatility,
		IntervalMs: *intervalMs,
		StartMs:    *startMs,
		Count:      *tickCount,
		Seed:       *seed,
	})
	if err != nil {
		logger.Fatalf("invalid generator config: %v", err)
	}

	ticks, err := gen.All(context.Background())
	if err != nil {
		logger.Fatalf("generate ticks: %v", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			logger.Fatalf("create %s: %v", *outPath, err)
		}
		defer file.Close()
		out = file
	}

	if err := feed.WriteCSV(out, ticks); err != nil {
		logger.Fatalf("write csv: %v", err)
	}
	logger.Printf("wrote %d ticks", len(ticks))
}
