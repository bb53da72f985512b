package storage

import (
	"context"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// TradeStore provides access to trade_records storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByLedger retrieves all trades for a ledger, ordered by close_time ASC.
	GetByLedger(ctx context.Context, ledgerID string) ([]*domain.TradeRecord, error)

	// GetByTimeRange retrieves a ledger's trades closed within [start, end] (inclusive),
	// ordered by close_time ASC.
	GetByTimeRange(ctx context.Context, ledgerID string, start, end time.Time) ([]*domain.TradeRecord, error)
}

// ReportSnapshotStore provides access to report_snapshots storage.
type ReportSnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if (ledger_id, generated_at) exists.
	Insert(ctx context.Context, s *domain.ReportSnapshot) error

	// GetByLedger retrieves all snapshots for a ledger, ordered by generated_at ASC.
	GetByLedger(ctx context.Context, ledgerID string) ([]*domain.ReportSnapshot, error)
}
