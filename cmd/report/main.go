package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"tradesim-lab/internal/reporting"
	"tradesim-lab/internal/storage"
	chstore "tradesim-lab/internal/storage/clickhouse"
	pgstore "tradesim-lab/internal/storage/postgres"
)

func main() {
	runID := flag.String("run-id", "", "Generate a report for one run (default: compare all runs)")
	outputDir := flag.String("output-dir", "", "Write files to this directory (default stdout)")
	equityCSV := flag.Bool("equity-csv", false, "Also export the equity curve as CSV (requires --run-id)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	if *postgresDSN == "" || *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	conn, err := chstore.NewConn(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("connect to clickhouse: %v", err)
	}
	defer conn.Close()

	var equityStore storage.EquityStore = chstore.NewEquityStore(conn)
	gen := reporting.NewGenerator(pgstore.NewRunStore(pool), pgstore.NewEventStore(pool), equityStore)

	if *runID == "" {
		rows, err := gen.Compare(ctx)
		if err != nil {
			logger.Fatalf("compare runs: %v", err)
		}
		if err := emit(*outputDir, "STRATEGY_COMPARISON.md", reporting.RenderComparisonMarkdown(rows, time.Now())); err != nil {
			logger.Fatalf("write comparison: %v", err)
		}
		return
	}

	report, err := gen.Generate(ctx, *runID)
	if err != nil {
		logger.Fatalf("generate report for %s: %v", *runID, err)
	}
	if err := emit(*outputDir, "RUN_REPORT.md", reporting.RenderMarkdown(report)); err != nil {
		logger.Fatalf("write report: %v", err)
	}

	if *equityCSV {
		points, err := equityStore.GetByRunID(ctx, *runID)
		if err != nil {
			logger.Fatalf("load equity curve: %v", err)
		}
		if err := emit(*outputDir, "EQUITY_CURVE.csv", reporting.RenderEquityCSV(points)); err != nil {
			logger.Fatalf("write equity curve: %v", err)
		}
	}
}

// emit writes content to dir/name, or to stdout when dir is empty.
func emit(dir, name, content string) error {
	if dir == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
