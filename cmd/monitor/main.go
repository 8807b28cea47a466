package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pumpstream/internal/bridge"
	"pumpstream/internal/dispatch"
	"pumpstream/internal/domain"
	"pumpstream/internal/monitor"
	"pumpstream/internal/observability"
	"pumpstream/internal/pumpportal"
	"pumpstream/internal/storage"
	chstore "pumpstream/internal/storage/clickhouse"
	"pumpstream/internal/storage/memory"
	"pumpstream/internal/storage/migrations"
	pgstore "pumpstream/internal/storage/postgres"
	"pumpstream/internal/subscription"
)

func main() {
	// Parse flags
	endpoint := flag.String("endpoint", pumpportal.DefaultEndpoint, "PumpPortal websocket endpoint")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (alternative to PostgreSQL)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of a database")
	tokensFile := flag.String("tokens-file", "", "File with one mint per line to track at startup")
	maxReconnects := flag.Int("max-reconnects", pumpportal.DefaultConfig().MaxReconnectAttempts, "Consecutive reconnect attempts before giving up")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags|log.Lshortfile)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err := run(ctx, logger, *endpoint, *postgresDSN, *clickhouseDSN, *tokensFile, *maxReconnects, *useMemory)

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, endpoint, postgresDSN, clickhouseDSN, tokensFile string, maxReconnects int, useMemory bool) error {
	if !useMemory && postgresDSN == "" && clickhouseDSN == "" {
		return fmt.Errorf("--postgres-dsn or --clickhouse-dsn is required (use --use-memory for in-memory storage)")
	}

	// Create store
	var tradeStore storage.TradeStore = memory.NewTradeStore()

	switch {
	case useMemory:
		// keep memory store
	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("apply postgres migrations: %w", err)
		}
		tradeStore = pgstore.NewTradeStore(pool)
	case clickhouseDSN != "":
		conn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return fmt.Errorf("apply clickhouse migrations: %w", err)
		}
		tradeStore = chstore.NewTradeStore(conn)
	}

	// Connect to the feed
	config := pumpportal.DefaultConfig()
	config.MaxReconnectAttempts = maxReconnects
	config.Logger = logger

	client, err := pumpportal.NewClient(ctx, endpoint, &config)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", endpoint, err)
	}
	defer client.Close()

	// Wire subscription management, dispatch and discovery
	manager := subscription.NewManager(client, logger)
	dispatcher := dispatch.NewDispatcher(logger)

	discoveryBridge := bridge.New(manager, logger)
	dispatcher.On(domain.EventCreated, discoveryBridge.HandleCreated)

	runner := monitor.NewRunner(client, manager, dispatcher, tradeStore, logger)

	if err := runner.Seed(ctx, tokensFile); err != nil {
		return fmt.Errorf("seed tracked tokens: %w", err)
	}

	logger.Printf("Connected to %s", endpoint)
	return runner.Run(ctx)
}
