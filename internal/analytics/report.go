package analytics

import (
	"math"
	"strconv"
	"time"
)

// Report is the single immutable result of one engine invocation.
// Field tags follow the external output contract.
type Report struct {
	Trades int `json:"trades"`

	// Summary
	NetProfitTotal   float64  `json:"net_profit"`
	GrossProfitTotal float64  `json:"gross_profit"`
	TotalCommission  float64  `json:"total_commission"`
	TotalSwap        float64  `json:"total_swap"`
	TotalFees        float64  `json:"total_fees"`
	WinRatePct       float64  `json:"win_rate_pct"`
	Expectancy       float64  `json:"expectancy"`
	AvgProfitWin     float64  `json:"avg_profit_win"`
	AvgLossLoss      float64  `json:"avg_loss_loss"`
	BestTrade        TradeTag `json:"best_trade"`
	WorstTrade       TradeTag `json:"worst_trade"`

	// Performance ratios
	ProfitFactor Ratio `json:"profit_factor"`
	// Pips fields are omitted entirely (not zero-filled) when the
	// ledger carries no pips column.
	TotalPips       *float64 `json:"total_pips,omitempty"`
	AvgPipsPerTrade *float64 `json:"avg_pips_per_trade,omitempty"`

	Equity         EquitySeries `json:"equity"`
	MaxDrawdownPct float64      `json:"max_drawdown_pct"`

	Monthly MonthlySeries `json:"monthly"`

	TimeAnalysis   map[int]DimensionBucket    `json:"time_analysis"`
	SymbolAnalysis map[string]DimensionBucket `json:"symbol_analysis"`
	SideAnalysis   map[string]DimensionBucket `json:"side_analysis"`

	Behavioral BehavioralSummary  `json:"behavioral"`
	RiskKPI    RiskRecommendation `json:"risk_kpi"`
	Chart      ChartData          `json:"chart"`

	// Warnings carries data-quality conditions the engine surfaced
	// instead of silently repairing (ordering violations, interior
	// months with no prior balance).
	Warnings []string `json:"warnings,omitempty"`
}

// TradeTag tags an extreme net profit with its originating trade for
// traceability.
type TradeTag struct {
	Value     float64   `json:"value"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	CloseTime time.Time `json:"close_time"`
}

// Ratio is a float64 whose JSON form survives IEEE special values.
// Profit factor is defined as positive infinity when there are wins
// and no losses, which encoding/json rejects for a plain float64.
type Ratio float64

// MarshalJSON encodes +/-Inf as quoted strings and finite values as
// plain numbers.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}
