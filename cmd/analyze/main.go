package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/analytics"
	"github.com/trungthanhnguyenn/lumir/internal/config"
	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/ledger"
	"github.com/trungthanhnguyenn/lumir/internal/observability"
	"github.com/trungthanhnguyenn/lumir/internal/reporting"
	chstore "github.com/trungthanhnguyenn/lumir/internal/storage/clickhouse"
	"github.com/trungthanhnguyenn/lumir/internal/storage/migrations"
	pgstore "github.com/trungthanhnguyenn/lumir/internal/storage/postgres"
)

func main() {
	csvPath := flag.String("csv", "", "Ledger CSV export to analyze")
	ledgerID := flag.String("ledger", "default", "Ledger identifier")
	postgresDSN := flag.String("postgres-dsn", "", "Load trades from PostgreSQL instead of CSV")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Archive a report snapshot to ClickHouse (optional)")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	configPath := flag.String("config", "", "Config file (YAML)")
	rapidFire := flag.Duration("rapid-fire-window", 0, "Override rapid-fire detection window")
	revenge := flag.Duration("revenge-window", 0, "Override revenge trade window")
	flag.Parse()

	logger := log.New(os.Stdout, "[analyze] ", log.LstdFlags|log.Lshortfile)

	if *csvPath == "" && *postgresDSN == "" {
		logger.Fatal("either --csv or --postgres-dsn is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	engineCfg, err := cfg.Analytics.EngineConfig()
	if err != nil {
		logger.Fatalf("analytics config: %v", err)
	}
	if *rapidFire > 0 {
		engineCfg.RapidFireWindow = *rapidFire
	}
	if *revenge > 0 {
		engineCfg.RevengeWindow = *revenge
	}

	ctx := context.Background()

	if err := run(ctx, logger, *csvPath, *ledgerID, *postgresDSN, *clickhouseDSN, *outputDir, engineCfg); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, csvPath, ledgerID, postgresDSN, clickhouseDSN, outputDir string, engineCfg analytics.Config) error {
	trades, err := loadTrades(ctx, logger, csvPath, ledgerID, postgresDSN)
	if err != nil {
		return err
	}
	logger.Printf("Loaded %d trades for ledger %s", len(trades), ledgerID)

	start := time.Now()
	report, err := analytics.Analyze(ctx, trades, engineCfg)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	observability.RecordReportGenerated(time.Since(start).Seconds(), len(report.Warnings))

	for _, w := range report.Warnings {
		logger.Printf("warning: %s", w)
	}

	if err := writeOutputs(logger, outputDir, ledgerID, report); err != nil {
		return err
	}

	if clickhouseDSN != "" {
		if err := archiveSnapshot(ctx, logger, clickhouseDSN, ledgerID, report); err != nil {
			return err
		}
	}

	observability.DefaultMetrics.LastSuccessfulReport.SetToCurrentTime()
	return nil
}

// loadTrades reads the trade table from CSV or PostgreSQL. CSV wins
// when both are given.
func loadTrades(ctx context.Context, logger *log.Logger, csvPath, ledgerID, postgresDSN string) ([]*domain.TradeRecord, error) {
	if csvPath != "" {
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()

		trades, err := ledger.ParseCSV(f, ledgerID)
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		return trades, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	store := pgstore.NewTradeStore(pool)
	queryStart := time.Now()
	trades, err := store.GetByLedger(ctx, ledgerID)
	observability.RecordDBQuery("postgres", "get_by_ledger", time.Since(queryStart).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	logger.Printf("Loaded trades from postgres")
	return trades, nil
}

func writeOutputs(logger *log.Logger, outputDir, ledgerID string, report *analytics.Report) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	generatedAt := time.Now().UTC()

	jsonPath := filepath.Join(outputDir, "report.json")
	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", jsonPath, err)
	}
	if err := reporting.WriteJSON(f, report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", jsonPath, err)
	}

	files := map[string]string{
		"REPORT.md":     reporting.RenderMarkdown(ledgerID, report, generatedAt),
		"monthly.csv":   reporting.RenderMonthlyCSV(report.Monthly),
		"breakdown.csv": reporting.RenderBreakdownCSV(report),
	}
	for name, content := range files {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	logger.Printf("Wrote report files to %s", outputDir)
	return nil
}

func archiveSnapshot(ctx context.Context, logger *log.Logger, dsn, ledgerID string, report *analytics.Report) error {
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		observability.DefaultMetrics.ArchiveErrors.Inc()
		return fmt.Errorf("clickhouse migrations: %w", err)
	}
	defer conn.Close()

	snap := analytics.Snapshot(ledgerID, report)
	snap.GeneratedAt = time.Now().UTC()

	store := chstore.NewReportSnapshotStore(conn)
	if err := store.Insert(ctx, snap); err != nil {
		observability.DefaultMetrics.ArchiveErrors.Inc()
		return fmt.Errorf("archive snapshot: %w", err)
	}

	observability.DefaultMetrics.SnapshotsArchived.Inc()
	logger.Printf("Archived snapshot for ledger %s", ledgerID)
	return nil
}
