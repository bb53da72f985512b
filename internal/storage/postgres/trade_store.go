package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const insertTradeQuery = `
	INSERT INTO trade_records (
		trade_id, ledger_id, symbol, side, close_time,
		net_profit, commission, swap,
		profit_gross, balance_after, pips, volume
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11, $12
	)
`

const selectTradeColumns = `
	trade_id, ledger_id, symbol, side, close_time,
	net_profit, commission, swap,
	profit_gross, balance_after, pips, volume
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.LedgerID, t.Symbol, t.Side, t.CloseTime,
		t.NetProfit, t.Commission, t.Swap,
		t.ProfitGross, t.BalanceAfter, t.Pips, t.Volume,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}

		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.LedgerID, t.Symbol, t.Side, t.CloseTime,
			t.NetProfit, t.Commission, t.Swap,
			t.ProfitGross, t.BalanceAfter, t.Pips, t.Volume,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	query := `SELECT ` + selectTradeColumns + ` FROM trade_records WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record by id: %w", err)
	}
	return t, nil
}

// GetByLedger retrieves all trades for a ledger, ordered by close_time ASC.
func (s *TradeStore) GetByLedger(ctx context.Context, ledgerID string) ([]*domain.TradeRecord, error) {
	query := `SELECT ` + selectTradeColumns + `
		FROM trade_records
		WHERE ledger_id = $1
		ORDER BY close_time ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("get trade records by ledger: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByTimeRange retrieves a ledger's trades closed within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(ctx context.Context, ledgerID string, start, end time.Time) ([]*domain.TradeRecord, error) {
	query := `SELECT ` + selectTradeColumns + `
		FROM trade_records
		WHERE ledger_id = $1 AND close_time >= $2 AND close_time <= $3
		ORDER BY close_time ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, ledgerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trade records by time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrade scans a single row into a TradeRecord.
func scanTrade(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord

	err := row.Scan(
		&t.TradeID, &t.LedgerID, &t.Symbol, &t.Side, &t.CloseTime,
		&t.NetProfit, &t.Commission, &t.Swap,
		&t.ProfitGross, &t.BalanceAfter, &t.Pips, &t.Volume,
	)
	if err != nil {
		return nil, err
	}

	t.CloseTime = t.CloseTime.UTC()
	return &t, nil
}

// scanTrades scans multiple rows into a slice of TradeRecord.
func scanTrades(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		var t domain.TradeRecord

		err := rows.Scan(
			&t.TradeID, &t.LedgerID, &t.Symbol, &t.Side, &t.CloseTime,
			&t.NetProfit, &t.Commission, &t.Swap,
			&t.ProfitGross, &t.BalanceAfter, &t.Pips, &t.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}

		t.CloseTime = t.CloseTime.UTC()
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
