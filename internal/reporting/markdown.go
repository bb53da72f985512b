// Package reporting renders analytics reports to the formats the CLI
// writes out: Markdown, CSV and JSON.
package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/analytics"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(ledgerID string, r *analytics.Report, generatedAt time.Time) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trade Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Ledger: %s\n\n", ledgerID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.Trades))
	sb.WriteString(fmt.Sprintf("| Net Profit | %.2f |\n", r.NetProfitTotal))
	sb.WriteString(fmt.Sprintf("| Gross Profit | %.2f |\n", r.GrossProfitTotal))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", r.WinRatePct))
	sb.WriteString(fmt.Sprintf("| Expectancy | %.2f |\n", r.Expectancy))
	sb.WriteString(fmt.Sprintf("| Avg Winning Trade | %.2f |\n", r.AvgProfitWin))
	sb.WriteString(fmt.Sprintf("| Avg Losing Trade | %.2f |\n", r.AvgLossLoss))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatRatio(float64(r.ProfitFactor))))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f%% |\n", r.MaxDrawdownPct))
	if r.TotalPips != nil {
		sb.WriteString(fmt.Sprintf("| Total Pips | %.1f |\n", *r.TotalPips))
	}
	sb.WriteString("\n")

	if r.Trades > 0 {
		sb.WriteString(fmt.Sprintf("Best trade: %.2f (%s %s, closed %s)\n\n",
			r.BestTrade.Value, r.BestTrade.Symbol, r.BestTrade.Side,
			r.BestTrade.CloseTime.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("Worst trade: %.2f (%s %s, closed %s)\n\n",
			r.WorstTrade.Value, r.WorstTrade.Symbol, r.WorstTrade.Side,
			r.WorstTrade.CloseTime.Format(time.RFC3339)))
	}

	// Costs
	sb.WriteString("## Trading Costs\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Commission | %.2f |\n", r.TotalCommission))
	sb.WriteString(fmt.Sprintf("| Total Swap | %.2f |\n", r.TotalSwap))
	sb.WriteString(fmt.Sprintf("| Total Fees | %.2f |\n", r.TotalFees))
	sb.WriteString("\n")

	// Monthly performance
	sb.WriteString("## Monthly Performance\n\n")
	if len(r.Monthly.Periods) > 0 {
		sb.WriteString("| Month | Net P/L | Fee Drag | Return | Index |\n")
		sb.WriteString("|-------|---------|----------|--------|-------|\n")
		for i, period := range r.Monthly.Periods {
			rt := "n/a"
			if r.Monthly.RT[i] != nil {
				rt = fmt.Sprintf("%.4f", *r.Monthly.RT[i])
			}
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %s | %.2f |\n",
				period, r.Monthly.Varpc[i], r.Monthly.Dividend[i], rt, r.Monthly.Index[i]))
		}
	} else {
		sb.WriteString("No monthly data available.\n")
	}
	sb.WriteString("\n")

	// Breakdowns
	sb.WriteString("## Symbol Breakdown\n\n")
	writeBucketTable(&sb, sortedStringKeys(r.SymbolAnalysis), func(k string) analytics.DimensionBucket {
		return r.SymbolAnalysis[k]
	})
	sb.WriteString("\n## Side Breakdown\n\n")
	writeBucketTable(&sb, sortedStringKeys(r.SideAnalysis), func(k string) analytics.DimensionBucket {
		return r.SideAnalysis[k]
	})

	sb.WriteString("\n## Hour-of-Day Breakdown\n\n")
	if len(r.TimeAnalysis) > 0 {
		sb.WriteString("| Hour | Trades | Profit | Volume | Wins | Losses |\n")
		sb.WriteString("|------|--------|--------|--------|------|--------|\n")
		hours := make([]int, 0, len(r.TimeAnalysis))
		for h := range r.TimeAnalysis {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		for _, h := range hours {
			b := r.TimeAnalysis[h]
			sb.WriteString(fmt.Sprintf("| %02d | %d | %.2f | %.2f | %d | %d |\n",
				h, b.TradeCount, b.ProfitSum, b.VolumeSum, b.WinCount, b.LossCount))
		}
	} else {
		sb.WriteString("No trades recorded.\n")
	}
	sb.WriteString("\n")

	// Behavioral
	sb.WriteString("## Behavioral Patterns\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Rapid-Fire Trades | %d |\n", r.Behavioral.RapidFireCount))
	sb.WriteString(fmt.Sprintf("| Rapid-Fire Ratio | %.4f |\n", r.Behavioral.RapidFireRatio))
	sb.WriteString(fmt.Sprintf("| Revenge Trades | %d |\n", r.Behavioral.RevengeTradeCount))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", r.Behavioral.MaxConsecutiveLosses))
	sb.WriteString("\n")

	// Risk
	sb.WriteString("## Risk Recommendations\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Avg Trades/Day | %.2f |\n", r.RiskKPI.AvgTradesPerDay))
	sb.WriteString(fmt.Sprintf("| Max Trades/Day | %d |\n", r.RiskKPI.MaxTradesPerDay))
	sb.WriteString(fmt.Sprintf("| Recommended Position Size | %.2f |\n", r.RiskKPI.RecommendedPositionSize))
	sb.WriteString(fmt.Sprintf("| Max Risk/Trade | %.2f |\n", r.RiskKPI.MaxRiskPerTrade))
	sb.WriteString(fmt.Sprintf("| Daily Stop Limit | %.2f |\n", r.RiskKPI.DailyStopLimit))
	sb.WriteString("\n")

	// Warnings
	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeBucketTable(sb *strings.Builder, keys []string, bucket func(string) analytics.DimensionBucket) {
	if len(keys) == 0 {
		sb.WriteString("No trades recorded.\n")
		return
	}
	sb.WriteString("| Key | Trades | Profit | Volume | Wins | Losses |\n")
	sb.WriteString("|-----|--------|--------|--------|------|--------|\n")
	for _, k := range keys {
		b := bucket(k)
		sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %d | %d |\n",
			k, b.TradeCount, b.ProfitSum, b.VolumeSum, b.WinCount, b.LossCount))
	}
}

func sortedStringKeys(m map[string]analytics.DimensionBucket) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "Infinity"
	}
	return fmt.Sprintf("%.2f", v)
}
