package clickhouse

import (
	"context"
	"fmt"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/storage"
)

// ReportSnapshotStore implements storage.ReportSnapshotStore using ClickHouse.
type ReportSnapshotStore struct {
	conn *Conn
}

// NewReportSnapshotStore creates a new ReportSnapshotStore.
func NewReportSnapshotStore(conn *Conn) *ReportSnapshotStore {
	return &ReportSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ReportSnapshotStore = (*ReportSnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if (ledger_id, generated_at) exists.
func (s *ReportSnapshotStore) Insert(ctx context.Context, snap *domain.ReportSnapshot) error {
	if snap == nil || snap.LedgerID == "" || snap.GeneratedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	// MergeTree does not enforce uniqueness; check explicitly to keep
	// append-only semantics.
	exists, err := s.exists(ctx, snap)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO report_snapshots (
			ledger_id, generated_at,
			trades, net_profit, gross_profit, total_fees,
			win_rate_pct, expectancy, profit_factor, max_drawdown_pct,
			max_consecutive_losses, rapid_fire_trades, revenge_trades,
			avg_trades_per_day, recommended_position
		) VALUES (
			?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?
		)
	`

	err = s.conn.Exec(ctx, query,
		snap.LedgerID, snap.GeneratedAt,
		snap.Trades, snap.NetProfit, snap.GrossProfit, snap.TotalFees,
		snap.WinRatePct, snap.Expectancy, snap.ProfitFactor, snap.MaxDrawdownPct,
		snap.MaxConsecutiveLosses, snap.RapidFireTrades, snap.RevengeTrades,
		snap.AvgTradesPerDay, snap.RecommendedPosition,
	)
	if err != nil {
		return fmt.Errorf("insert report snapshot: %w", err)
	}
	return nil
}

// GetByLedger retrieves all snapshots for a ledger, ordered by generated_at ASC.
func (s *ReportSnapshotStore) GetByLedger(ctx context.Context, ledgerID string) ([]*domain.ReportSnapshot, error) {
	query := `
		SELECT
			ledger_id, generated_at,
			trades, net_profit, gross_profit, total_fees,
			win_rate_pct, expectancy, profit_factor, max_drawdown_pct,
			max_consecutive_losses, rapid_fire_trades, revenge_trades,
			avg_trades_per_day, recommended_position
		FROM report_snapshots
		WHERE ledger_id = ?
		ORDER BY generated_at ASC
	`

	rows, err := s.conn.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("get report snapshots by ledger: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.ReportSnapshot
	for rows.Next() {
		var snap domain.ReportSnapshot
		err := rows.Scan(
			&snap.LedgerID, &snap.GeneratedAt,
			&snap.Trades, &snap.NetProfit, &snap.GrossProfit, &snap.TotalFees,
			&snap.WinRatePct, &snap.Expectancy, &snap.ProfitFactor, &snap.MaxDrawdownPct,
			&snap.MaxConsecutiveLosses, &snap.RapidFireTrades, &snap.RevengeTrades,
			&snap.AvgTradesPerDay, &snap.RecommendedPosition,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report snapshot row: %w", err)
		}
		snap.GeneratedAt = snap.GeneratedAt.UTC()
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report snapshot rows: %w", err)
	}

	return snaps, nil
}

// exists reports whether a snapshot with the same key is already stored.
func (s *ReportSnapshotStore) exists(ctx context.Context, snap *domain.ReportSnapshot) (bool, error) {
	query := `
		SELECT count() FROM report_snapshots
		WHERE ledger_id = ? AND generated_at = ?
	`

	var count uint64
	row := s.conn.QueryRow(ctx, query, snap.LedgerID, snap.GeneratedAt)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
