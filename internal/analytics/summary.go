package analytics

import (
	"math"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// summaryStats holds the one-pass totals and ratios over the whole table.
type summaryStats struct {
	trades          int
	netProfitTotal  float64
	grossProfit     float64
	totalCommission float64
	totalSwap       float64
	totalFees       float64
	winRatePct      float64
	expectancy      float64
	avgProfitWin    float64
	avgLossLoss     float64
	bestTrade       TradeTag
	worstTrade      TradeTag

	profitFactor    float64
	totalPips       *float64
	avgPipsPerTrade *float64
}

// summarize computes the summary aggregates and performance ratios in a
// single scan. Every division is guarded explicitly; an empty table
// yields zeros, never a fault.
func summarize(table []*domain.TradeRecord) summaryStats {
	var s summaryStats
	s.trades = len(table)

	var (
		winsSum, lossesSum float64
		winCount, lossCnt  int
		pipsSum            float64
		pipsCount          int
		bestIdx, worstIdx  = -1, -1
	)

	for i, t := range table {
		s.netProfitTotal += t.NetProfit
		s.totalCommission += t.Commission
		s.totalSwap += t.Swap

		if t.NetProfit > 0 {
			winsSum += t.NetProfit
			winCount++
		} else if t.NetProfit < 0 {
			lossesSum += t.NetProfit
			lossCnt++
		}

		if bestIdx < 0 || t.NetProfit > table[bestIdx].NetProfit {
			bestIdx = i
		}
		if worstIdx < 0 || t.NetProfit < table[worstIdx].NetProfit {
			worstIdx = i
		}

		if t.Pips != nil {
			pipsSum += *t.Pips
			pipsCount++
		}
	}

	// Fees use absolute sums; gross profit recovers the pre-fee result.
	s.totalFees = math.Abs(s.totalCommission) + math.Abs(s.totalSwap)
	s.grossProfit = s.netProfitTotal + s.totalFees

	if s.trades > 0 {
		s.winRatePct = float64(winCount) / float64(s.trades) * 100.0
		s.expectancy = s.netProfitTotal / float64(s.trades)
		s.bestTrade = tagOf(table[bestIdx])
		s.worstTrade = tagOf(table[worstIdx])
	}
	if winCount > 0 {
		s.avgProfitWin = winsSum / float64(winCount)
	}
	if lossCnt > 0 {
		s.avgLossLoss = lossesSum / float64(lossCnt)
	}

	s.profitFactor = profitFactor(winsSum, lossesSum)

	// Pips ratios apply only when the ledger carries the column;
	// absence must stay distinguishable from zero pips.
	if pipsCount > 0 {
		avg := pipsSum / float64(pipsCount)
		s.totalPips = &pipsSum
		s.avgPipsPerTrade = &avg
	}

	return s
}

// profitFactor is winsSum / |lossesSum|. Positive infinity when there
// are wins and no losses; zero when both sums are zero.
func profitFactor(winsSum, lossesSum float64) float64 {
	lossAbs := math.Abs(lossesSum)
	if lossAbs == 0 {
		if winsSum > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return winsSum / lossAbs
}

func tagOf(t *domain.TradeRecord) TradeTag {
	return TradeTag{
		Value:     t.NetProfit,
		Symbol:    t.Symbol,
		Side:      t.Side,
		CloseTime: t.CloseTime,
	}
}
