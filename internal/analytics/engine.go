// Package analytics derives a standardized performance report from a
// normalized, time-ordered table of closed trades: aggregate totals, an
// equity/drawdown curve, a monthly compounding index, dimensional
// breakdowns, behavioral risk heuristics and position-sizing
// recommendations.
package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// Analyze runs every reduction over the table and merges the results
// into a single immutable Report. It is a pure function of its input:
// the table is never mutated, nothing is retried, and no state survives
// the call.
//
// The components with no data dependency on each other run
// concurrently; chart assembly shares the equity series and runs right
// after it inside the same task. The report is assembled only once all
// components have finished.
func Analyze(ctx context.Context, table []*domain.TradeRecord, cfg Config) (*Report, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}

	ordered, ok := ensureOrdered(table)
	var warnings []string
	if !ok {
		warnings = append(warnings, "ordering: close_time not non-decreasing; table re-sorted (stable, original position breaks ties)")
	}

	var (
		sum             summaryStats
		equity          EquitySeries
		maxDDPct        float64
		chart           ChartData
		monthly         MonthlySeries
		monthlyWarnings []string
		byHour          map[int]DimensionBucket
		bySymbol        map[string]DimensionBucket
		bySide          map[string]DimensionBucket
		behavior        BehavioralSummary
		risk            RiskRecommendation
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum = summarize(ordered)
		return nil
	})
	g.Go(func() error {
		equity, maxDDPct = buildEquity(ordered)
		chart = assembleChart(equity)
		return nil
	})
	g.Go(func() error {
		monthly, monthlyWarnings = buildMonthly(ordered)
		return nil
	})
	g.Go(func() error {
		byHour, bySymbol, bySide = buildBreakdowns(ordered)
		return nil
	})
	g.Go(func() error {
		behavior = detectBehavior(ordered, cfg)
		return nil
	})
	g.Go(func() error {
		risk = recommendRisk(ordered, cfg)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	warnings = append(warnings, monthlyWarnings...)

	return &Report{
		Trades: sum.trades,

		NetProfitTotal:   sum.netProfitTotal,
		GrossProfitTotal: sum.grossProfit,
		TotalCommission:  sum.totalCommission,
		TotalSwap:        sum.totalSwap,
		TotalFees:        sum.totalFees,
		WinRatePct:       sum.winRatePct,
		Expectancy:       sum.expectancy,
		AvgProfitWin:     sum.avgProfitWin,
		AvgLossLoss:      sum.avgLossLoss,
		BestTrade:        sum.bestTrade,
		WorstTrade:       sum.worstTrade,

		ProfitFactor:    Ratio(sum.profitFactor),
		TotalPips:       sum.totalPips,
		AvgPipsPerTrade: sum.avgPipsPerTrade,

		Equity:         equity,
		MaxDrawdownPct: maxDDPct,
		Monthly:        monthly,

		TimeAnalysis:   byHour,
		SymbolAnalysis: bySymbol,
		SideAnalysis:   bySide,

		Behavioral: behavior,
		RiskKPI:    risk,
		Chart:      chart,

		Warnings: warnings,
	}, nil
}

// Snapshot flattens a report into one archive row for a ledger.
func Snapshot(ledgerID string, r *Report) *domain.ReportSnapshot {
	return &domain.ReportSnapshot{
		LedgerID:             ledgerID,
		Trades:               r.Trades,
		NetProfit:            r.NetProfitTotal,
		GrossProfit:          r.GrossProfitTotal,
		TotalFees:            r.TotalFees,
		WinRatePct:           r.WinRatePct,
		Expectancy:           r.Expectancy,
		ProfitFactor:         float64(r.ProfitFactor),
		MaxDrawdownPct:       r.MaxDrawdownPct,
		MaxConsecutiveLosses: r.Behavioral.MaxConsecutiveLosses,
		RapidFireTrades:      r.Behavioral.RapidFireCount,
		RevengeTrades:        r.Behavioral.RevengeTradeCount,
		AvgTradesPerDay:      r.RiskKPI.AvgTradesPerDay,
		RecommendedPosition:  r.RiskKPI.RecommendedPositionSize,
	}
}
