// Package main provides a websocket tick server for live-feed backtests.
// Each connection receives the full tick stream as JSON messages and a
// normal close when the stream ends, so clients can treat it like any
// other finite feed.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"tradesim-lab/internal/domain"
	"tradesim-lab/internal/feed"
	"tradesim-lab/internal/observability"
)

type tickServer struct {
	ticks    []domain.Tick
	throttle time.Duration
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	csvPath := flag.String("csv", "", "Serve ticks from a CSV file instead of generated data")
	symbols := flag.String("symbols", "SYMA", "Comma-separated symbols for generated data")
	tickCount := flag.Int("ticks", 1000, "Generated ticks per symbol")
	startPrice := flag.Float64("start-price", 100.0, "Generated walk start price")
	drift := flag.Float64("drift", 0.0, "Generated walk per-step drift")
	volatility := flag.Float64("volatility", 0.01, "Generated walk per-step volatility")
	intervalMs := flag.Int64("interval-ms", 1000, "Generated tick spacing (ms)")
	seed := flag.Int64("seed", 42, "Generator seed")
	throttle := flag.Duration("throttle", 0, "Delay between messages (0 streams at full speed)")

	flag.Parse()

	logger := log.New(os.Stderr, "[tickserver] ", log.LstdFlags)

	ticks, err := loadTicks(*csvPath, feed.GeneratorConfig{
		Symbols:    strings.Split(*symbols, ","),
		StartPrice: *startPrice,
		Drift:      *drift,
		Volatility: *volatility,
		IntervalMs: *intervalMs,
		StartMs:    1,
		Count:      *tickCount,
		Seed:       *seed,
	})
	if err != nil {
		logger.Fatalf("load ticks: %v", err)
	}

	srv := &tickServer{
		ticks:    ticks,
		throttle: *throttle,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWS)
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{Addr: *addr, Handler: mux}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	logger.Printf("serving %d ticks on %s", len(ticks), *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("listen: %v", err)
	}
}

// loadTicks reads the full stream up front so every connection replays the
// same data.
func loadTicks(csvPath string, cfg feed.GeneratorConfig) ([]domain.Tick, error) {
	if csvPath == "" {
		gen, err := feed.NewGenerator(cfg)
		if err != nil {
			return nil, err
		}
		return gen.All(context.Background())
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src := feed.NewCSVFeed(file)
	var ticks []domain.Tick
	for {
		tick, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return ticks, nil
		}
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, tick)
	}
}

func (s *tickServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	s.logger.Printf("client %s connected", r.RemoteAddr)
	for _, tick := range s.ticks {
		if err := conn.WriteJSON(feed.MessageFromTick(tick)); err != nil {
			s.logger.Printf("client %s: write: %v", r.RemoteAddr, err)
			return
		}
		if s.throttle > 0 {
			time.Sleep(s.throttle)
		}
	}

	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream complete"), deadline)
	s.logger.Printf("client %s: stream complete", r.RemoteAddr)
}
