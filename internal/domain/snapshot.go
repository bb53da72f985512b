package domain

import "time"

// ReportSnapshot is one flattened archive row per analytics run.
// The engine itself holds no state between invocations; archiving a
// snapshot is a caller-side concern.
type ReportSnapshot struct {
	LedgerID    string
	GeneratedAt time.Time

	Trades               int
	NetProfit            float64
	GrossProfit          float64
	TotalFees            float64
	WinRatePct           float64
	Expectancy           float64
	ProfitFactor         float64 // +Inf possible when no losing trades exist
	MaxDrawdownPct       float64
	MaxConsecutiveLosses int
	RapidFireTrades      int
	RevengeTrades        int
	AvgTradesPerDay      float64
	RecommendedPosition  float64
}
