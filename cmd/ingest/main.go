package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/config"
	"github.com/trungthanhnguyenn/lumir/internal/ledger"
	"github.com/trungthanhnguyenn/lumir/internal/observability"
	"github.com/trungthanhnguyenn/lumir/internal/storage"
	"github.com/trungthanhnguyenn/lumir/internal/storage/memory"
	"github.com/trungthanhnguyenn/lumir/internal/storage/migrations"
	pgstore "github.com/trungthanhnguyenn/lumir/internal/storage/postgres"
)

func main() {
	csvPath := flag.String("csv", "", "Ledger CSV export to ingest")
	ledgerID := flag.String("ledger", "default", "Ledger identifier")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	wsEndpoint := flag.String("ws-endpoint", "", "WebSocket ledger feed to tail")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9102", "Prometheus metrics HTTP address (empty to disable)")
	configPath := flag.String("config", "", "Config file (YAML)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *wsEndpoint == "" {
		*wsEndpoint = cfg.Ingest.WSEndpoint
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.Postgres.DSN
	}

	if *csvPath == "" && *wsEndpoint == "" {
		logger.Fatal("either --csv or --ws-endpoint is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

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

	ctx, cancel := context.WithCancel(context.Background())

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

	var runErr error
	if *csvPath != "" {
		runErr = runCSV(ctx, logger, *csvPath, *ledgerID, *postgresDSN, *useMemory)
	} else {
		runErr = runTail(ctx, logger, *wsEndpoint, *ledgerID, *postgresDSN, *useMemory)
	}

	done <- runErr
	cancel()

	if runErr != nil && runErr != context.Canceled {
		logger.Fatalf("Error: %v", runErr)
	}

	logger.Println("Shutdown complete")
}

// newTradeStore builds the configured trade store, running migrations
// when backed by PostgreSQL. The returned closer releases the pool.
func newTradeStore(ctx context.Context, postgresDSN string, useMemory bool) (storage.TradeStore, func(), error) {
	if useMemory {
		return memory.NewTradeStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return pgstore.NewTradeStore(pool), pool.Close, nil
}

// runCSV loads a ledger export and bulk-inserts it.
func dbLabel(useMemory bool) string {
	if useMemory {
		return "memory"
	}
	return "postgres"
}

func runCSV(ctx context.Context, logger *log.Logger, csvPath, ledgerID, postgresDSN string, useMemory bool) error {
	store, closeStore, err := newTradeStore(ctx, postgresDSN, useMemory)
	if err != nil {
		return err
	}
	defer closeStore()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	trades, err := ledger.ParseCSV(f, ledgerID)
	if err != nil {
		observability.RecordIngestError("parse")
		return fmt.Errorf("parse csv: %w", err)
	}

	queryStart := time.Now()
	err = store.InsertBulk(ctx, trades)
	observability.RecordDBQuery(dbLabel(useMemory), "insert_bulk", time.Since(queryStart).Seconds(), err)
	if err != nil {
		observability.RecordIngestError("store")
		return fmt.Errorf("insert trades: %w", err)
	}

	for range trades {
		observability.RecordTradeIngested("csv")
	}
	observability.DefaultMetrics.TradesStored.Add(float64(len(trades)))
	observability.DefaultMetrics.LastSuccessfulIngestion.SetToCurrentTime()

	logger.Printf("Ingested %d trades from %s into ledger %s", len(trades), csvPath, ledgerID)
	return nil
}

// runTail tails a WebSocket ledger feed until the context is canceled,
// storing each closed trade as it arrives.
func runTail(ctx context.Context, logger *log.Logger, wsEndpoint, ledgerID, postgresDSN string, useMemory bool) error {
	store, closeStore, err := newTradeStore(ctx, postgresDSN, useMemory)
	if err != nil {
		return err
	}
	defer closeStore()

	tail, err := ledger.NewTail(ctx, wsEndpoint, ledgerID, nil)
	if err != nil {
		return fmt.Errorf("connect to feed: %w", err)
	}
	defer tail.Close()

	logger.Printf("Tailing %s into ledger %s", wsEndpoint, ledgerID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case trade, ok := <-tail.Trades():
			if !ok {
				return nil
			}

			observability.RecordTradeIngested("ws")
			queryStart := time.Now()
			err := store.Insert(ctx, trade)
			observability.RecordDBQuery(dbLabel(useMemory), "insert", time.Since(queryStart).Seconds(), err)
			if err != nil {
				// A duplicate means the feed re-sent a trade we already
				// hold; anything else is fatal.
				if err == storage.ErrDuplicateKey {
					logger.Printf("skipping duplicate trade %s", trade.TradeID)
					continue
				}
				observability.RecordIngestError("store")
				return fmt.Errorf("insert trade: %w", err)
			}
			observability.DefaultMetrics.TradesStored.Inc()
			observability.DefaultMetrics.LastSuccessfulIngestion.SetToCurrentTime()
		}
	}
}
