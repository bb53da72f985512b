package analytics

import (
	"math"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// EquitySeries holds the parallel equity/drawdown sequences, one point
// per trade in close-time order.
type EquitySeries struct {
	RB    []float64 `json:"rb"`     // running balance (cumulative net profit)
	Peak  []float64 `json:"peak"`   // running maximum of RB, non-decreasing
	DDAbs []float64 `json:"dd_abs"` // peak - rb, >= 0
	DDPct []float64 `json:"dd_pct"` // dd_abs as % of peak, 0 when peak is 0
}

// buildEquity computes the equity curve with a single left-to-right
// scan: cumulative sum plus running max. Recomputing peaks per index
// would be O(n^2); the recurrence keeps it O(n) and numerically stable.
// Returns the series and the maximum drawdown percent.
func buildEquity(table []*domain.TradeRecord) (EquitySeries, float64) {
	n := len(table)
	es := EquitySeries{
		RB:    make([]float64, 0, n),
		Peak:  make([]float64, 0, n),
		DDAbs: make([]float64, 0, n),
		DDPct: make([]float64, 0, n),
	}

	running := 0.0
	peak := math.Inf(-1)
	maxDDPct := 0.0

	for _, t := range table {
		running += t.NetProfit
		if running > peak {
			peak = running
		}
		ddAbs := peak - running
		ddPct := 0.0
		if peak != 0 {
			ddPct = ddAbs / peak * 100.0
		}
		if ddPct > maxDDPct {
			maxDDPct = ddPct
		}

		es.RB = append(es.RB, running)
		es.Peak = append(es.Peak, peak)
		es.DDAbs = append(es.DDAbs, ddAbs)
		es.DDPct = append(es.DDPct, ddPct)
	}

	return es, maxDDPct
}
