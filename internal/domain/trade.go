package domain

import "time"

// Side values after ledger normalization.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// TradeRecord represents one closed trade from a broker ledger.
// Instances are immutable once handed to the analytics engine;
// the table is expected to be sorted non-decreasing by CloseTime.
type TradeRecord struct {
	TradeID  string // deterministic hash, assigned on ingestion
	LedgerID string // source ledger identifier

	Symbol    string
	Side      string    // BUY | SELL
	CloseTime time.Time // UTC
	NetProfit float64

	Commission float64 // signed, typically <= 0
	Swap       float64 // signed, typically <= 0

	// Optional columns. Nil when the source ledger does not carry them;
	// a nil here is distinct from an explicit zero.
	ProfitGross  *float64
	BalanceAfter *float64 // account balance after this trade closed
	Pips         *float64
	Volume       *float64 // closed lots, or generic closed quantity
}
