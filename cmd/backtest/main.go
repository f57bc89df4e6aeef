package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/engine"
	"tradesim-lab/internal/eventlog"
	"tradesim-lab/internal/feed"
	perf "tradesim-lab/internal/metrics"
	"tradesim-lab/internal/observability"
	"tradesim-lab/internal/storage"
	chstore "tradesim-lab/internal/storage/clickhouse"
	"tradesim-lab/internal/storage/memory"
	"tradesim-lab/internal/storage/migrations"
	pgstore "tradesim-lab/internal/storage/postgres"
	"tradesim-lab/internal/strategy"
)

func main() {
	// Strategy
	strategyType := flag.String("strategy", "", "Strategy: VOLATILITY_BREAKOUT, MOVING_AVERAGE, MOMENTUM, BUY_AND_HOLD (required)")
	windowSize := flag.Int("window", 20, "Rolling window size for VOLATILITY_BREAKOUT")
	breakoutThreshold := flag.Float64("threshold", 2.0, "Breakout threshold in standard deviations")
	shortWindow := flag.Int("short-window", 10, "Short window for MOVING_AVERAGE")
	longWindow := flag.Int("long-window", 50, "Long window for MOVING_AVERAGE")
	lookback := flag.Int("lookback", 10, "Lookback period for MOMENTUM")
	momentumThreshold := flag.Float64("momentum-threshold", 0.05, "Return threshold for MOMENTUM")
	orderQuantity := flag.Int64("quantity", 10, "Order quantity per signal")

	// Simulation
	maxPosition := flag.Int64("max-position", 100, "Absolute per-symbol position limit")
	failureRate := flag.Float64("failure-rate", 0.0, "Execution failure rate in [0, 1]")
	initialCash := flag.String("initial-cash", "100000", "Initial portfolio cash")
	slippageBps := flag.Float64("slippage-bps", 0.0, "Adverse slippage in basis points")
	feePerTrade := flag.String("fee", "0", "Flat fee per successful fill")
	seed := flag.Int64("seed", 42, "Seed for the failure source and generated data")

	// Feed (first match wins: csv, fix, ws, generator)
	csvPath := flag.String("csv", "", "Replay ticks from a CSV file")
	fixPath := flag.String("fix", "", "Replay ticks from a FIX message file")
	wsURL := flag.String("ws", "", "Stream ticks from a websocket tick server")
	symbols := flag.String("symbols", "SYMA", "Comma-separated symbols for generated data")
	tickCount := flag.Int("ticks", 1000, "Generated ticks per symbol")
	startPrice := flag.Float64("start-price", 100.0, "Generated walk start price")
	drift := flag.Float64("drift", 0.0, "Generated walk per-step drift")
	volatility := flag.Float64("volatility", 0.01, "Generated walk per-step volatility")
	intervalMs := flag.Int64("interval-ms", 1000, "Generated tick spacing (ms)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", true, "Use in-memory storage")
	migrate := flag.Bool("migrate", false, "Apply schema migrations before running")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persistResult := flag.Bool("persist", false, "Persist run, event log and equity curve to storage")
	showProgress := flag.Bool("progress", true, "Show a progress bar for feeds of known size")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address during the run")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	if *strategyType == "" {
		logger.Fatal("--strategy is required")
	}
	*strategyType = strings.ToUpper(*strategyType)

	strat, err := strategy.FromConfig(strategy.Config{
		Type:              *strategyType,
		WindowSize:        *windowSize,
		BreakoutThreshold: *breakoutThreshold,
		ShortWindow:       *shortWindow,
		LongWindow:        *longWindow,
		LookbackPeriod:    *lookback,
		MomentumThreshold: *momentumThreshold,
		OrderQuantity:     *orderQuantity,
	})
	if err != nil {
		logger.Fatalf("invalid strategy config: %v", err)
	}

	cash, err := decimal.NewFromString(*initialCash)
	if err != nil {
		logger.Fatalf("invalid --initial-cash: %v", err)
	}
	fee, err := decimal.NewFromString(*feePerTrade)
	if err != nil {
		logger.Fatalf("invalid --fee: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Create stores
	var runStore storage.RunStore = memory.NewRunStore()
	var eventStore storage.EventStore = memory.NewEventStore()
	var equityStore storage.EquityStore = memory.NewEquityStore()
	dbBacked := false

	if !*useMemory {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (runs and event log)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (equity curve)")
		}

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

		if *migrate {
			if err := migrations.RunPostgres(ctx, pool); err != nil {
				logger.Fatalf("postgres migrations: %v", err)
			}
			if err := migrations.RunClickhouse(ctx, conn); err != nil {
				logger.Fatalf("clickhouse migrations: %v", err)
			}
		}

		runStore = pgstore.NewRunStore(pool)
		eventStore = pgstore.NewEventStore(pool)
		equityStore = chstore.NewEquityStore(conn)
		dbBacked = true
	}

	// With a database-backed event store the log is persisted entry by entry
	// as the run executes, so a crash still leaves an audit trail.
	events := eventlog.New()
	eventsPersisted := false
	if *persistResult && dbBacked {
		events = eventlog.NewWithSink(storage.NewEventSink(eventStore))
		eventsPersisted = true
	}

	metrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	source, cleanup, total, err := buildFeed(ctx, feedFlags{
		csvPath:    *csvPath,
		fixPath:    *fixPath,
		wsURL:      *wsURL,
		symbols:    strings.Split(*symbols, ","),
		tickCount:  *tickCount,
		startPrice: *startPrice,
		drift:      *drift,
		volatility: *volatility,
		intervalMs: *intervalMs,
		seed:       *seed,
	})
	if err != nil {
		logger.Fatalf("build feed: %v", err)
	}
	defer cleanup()

	pipeline, err := engine.NewPipeline(engine.PipelineOptions{
		Config: engine.Config{
			MaxPositionSize:      *maxPosition,
			ExecutionFailureRate: *failureRate,
			InitialCash:          cash,
			SlippageBps:          *slippageBps,
			FeePerTrade:          fee,
			Seed:                 *seed,
		},
		Strategy: strat,
		EventLog: events,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatalf("build pipeline: %v", err)
	}

	if *showProgress && total > 0 && !*outputJSON {
		source = &progressSource{src: source, bar: initProgressBar(total)}
	}

	logger.Printf("Running backtest: run=%s strategy=%s seed=%d", pipeline.RunID(), strat.ID(), *seed)

	runStart := time.Now()
	runErr := pipeline.Run(ctx, source)
	if runErr != nil {
		logger.Printf("run aborted: %v", runErr)
	}
	record := pipeline.Summary(time.Now().UnixMilli())

	status := "completed"
	if runErr != nil {
		status = "aborted"
	}
	metrics.RunsTotal.WithLabelValues(status).Inc()
	metrics.RunDuration.Observe(time.Since(runStart).Seconds())

	if *persistResult {
		writer := engine.NewRunWriter(runStore, eventStore, equityStore).WithMetrics(metrics)
		if err := writer.Write(ctx, pipeline, record, eventsPersisted); err != nil {
			logger.Fatalf("persist run: %v", err)
		}
		logger.Printf("persisted run %s", record.RunID)
	}

	performance := perf.Compute(pipeline.Portfolio().Equity())

	if *outputJSON {
		output, _ := json.MarshalIndent(struct {
			Run         domain.RunRecord
			Performance perf.Performance
		}{record, performance}, "", "  ")
		fmt.Println(string(output))
	} else {
		printRunSummary(record, performance)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		os.Exit(1)
	}
}

type feedFlags struct {
	csvPath    string
	fixPath    string
	wsURL      string
	symbols    []string
	tickCount  int
	startPrice float64
	drift      float64
	volatility float64
	intervalMs int64
	seed       int64
}

// buildFeed selects the tick source. The returned total is the number of
// ticks the source will emit, or -1 when unknown.
func buildFeed(ctx context.Context, f feedFlags) (engine.TickSource, func(), int, error) {
	noop := func() {}

	switch {
	case f.csvPath != "":
		file, err := os.Open(f.csvPath)
		if err != nil {
			return nil, nil, 0, err
		}
		return feed.NewCSVFeed(file), func() { file.Close() }, -1, nil

	case f.fixPath != "":
		file, err := os.Open(f.fixPath)
		if err != nil {
			return nil, nil, 0, err
		}
		return feed.NewFIXFeed(file), func() { file.Close() }, -1, nil

	case f.wsURL != "":
		ws, err := feed.DialWS(ctx, f.wsURL)
		if err != nil {
			return nil, nil, 0, err
		}
		return ws, func() { ws.Close() }, -1, nil

	default:
		gen, err := feed.NewGenerator(feed.GeneratorConfig{
			Symbols:    f.symbols,
			StartPrice: f.startPrice,
			Drift:      f.drift,
			Volatility: f.volatility,
			IntervalMs: f.intervalMs,
			StartMs:    1,
			Count:      f.tickCount,
			Seed:       f.seed,
		})
		if err != nil {
			return nil, nil, 0, err
		}
		return gen, noop, f.tickCount * len(f.symbols), nil
	}
}

// progressSource advances a progress bar for every tick it yields.
type progressSource struct {
	src engine.TickSource
	bar *progressbar.ProgressBar
}

func (s *progressSource) Next(ctx context.Context) (domain.Tick, error) {
	tick, err := s.src.Next(ctx)
	if err == nil {
		_ = s.bar.Add(1)
	}
	return tick, err
}

func initProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Replaying ticks..."),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

// printRunSummary outputs a human-readable run summary.
func printRunSummary(r domain.RunRecord, p perf.Performance) {
	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:             %s\n", r.RunID)
	fmt.Printf("Strategy:           %s\n", r.StrategyID)
	fmt.Printf("Seed:               %d\n", r.Seed)
	fmt.Printf("Started:            %s\n", time.UnixMilli(r.StartedAtMs).Format(time.RFC3339))
	fmt.Printf("Finished:           %s\n", time.UnixMilli(r.FinishedAtMs).Format(time.RFC3339))
	fmt.Println()

	fmt.Println("Pipeline:")
	fmt.Printf("  Ticks Processed:  %d\n", r.TicksProcessed)
	fmt.Printf("  Signals:          %d\n", r.SignalCount)
	fmt.Printf("  Approved:         %d\n", r.ApprovedCount)
	fmt.Printf("  Rejected:         %d\n", r.RejectedCount)
	fmt.Printf("  Executed:         %d\n", r.ExecutedCount)
	fmt.Printf("  Failed:           %d\n", r.FailedCount)
	fmt.Printf("  Errors:           %d\n", r.ErrorCount)
	fmt.Println()

	fmt.Println("Portfolio:")
	fmt.Printf("  Initial Cash:     %s\n", r.InitialCash)
	fmt.Printf("  Final Cash:       %s\n", r.FinalCash)
	fmt.Printf("  Final Value:      %s\n", r.FinalValue)
	fmt.Println()

	fmt.Println("Performance:")
	fmt.Printf("  Total Return:     %.4f%%\n", p.TotalReturn*100)
	fmt.Printf("  Sharpe Ratio:     %.4f\n", p.Sharpe)
	fmt.Printf("  Max Drawdown:     %.4f%%\n", p.MaxDrawdown*100)

	if r.FatalReason != "" {
		fmt.Println()
		fmt.Printf("Run aborted: %s\n", r.FatalReason)
	}
}
