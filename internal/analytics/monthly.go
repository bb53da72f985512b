package analytics

import (
	"fmt"
	"math"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// monthlyIndexBase is the value the compounding index resets to
// whenever no prior closing balance is available.
const monthlyIndexBase = 100.0

// MonthlySeries holds the monthly compounding table as parallel
// sequences, one entry per distinct calendar month observed.
type MonthlySeries struct {
	Periods  []string   `json:"periods"`  // "YYYY-MM", chronological
	Varpc    []float64  `json:"varpc"`    // net profit per month
	Dividend []float64  `json:"dividend"` // fee drag per month, <= 0
	RT       []*float64 `json:"rt"`       // return rate, nil when no prior balance
	Index    []float64  `json:"index"`    // base-100 compounding index
}

// buildMonthly folds over the chronologically ordered table, carrying
// the prior month's closing balance between consecutive groups. The
// carry-forward makes this an explicit sequential fold; months cannot
// be reduced independently.
//
// A nil return rate resets the index to the base instead of leaving it
// undefined, so the series always has one value per period. A nil after
// the first period means interior balance data is missing; that is
// surfaced as a warning, never fabricated around.
func buildMonthly(table []*domain.TradeRecord) (MonthlySeries, []string) {
	ms := MonthlySeries{
		Periods:  make([]string, 0),
		Varpc:    make([]float64, 0),
		Dividend: make([]float64, 0),
		RT:       make([]*float64, 0),
		Index:    make([]float64, 0),
	}
	var warnings []string

	// Per-month accumulator state.
	var (
		label       string
		varpc       float64
		feeAbs      float64
		lastBalance *float64
	)
	var prevMonthEnd *float64
	indexValue := monthlyIndexBase

	flush := func() {
		dividend := -feeAbs

		var rt *float64
		if prevMonthEnd != nil && *prevMonthEnd != 0 {
			v := (varpc - dividend) / *prevMonthEnd
			rt = &v
		}

		if rt == nil {
			indexValue = monthlyIndexBase
			if len(ms.Periods) > 0 {
				warnings = append(warnings,
					fmt.Sprintf("monthly: no prior closing balance for %s; return unavailable, index reset to %.0f", label, monthlyIndexBase))
			}
		} else {
			indexValue *= 1.0 + *rt
		}

		ms.Periods = append(ms.Periods, label)
		ms.Varpc = append(ms.Varpc, varpc)
		ms.Dividend = append(ms.Dividend, dividend)
		ms.RT = append(ms.RT, rt)
		ms.Index = append(ms.Index, round2(indexValue))

		prevMonthEnd = lastBalance
		varpc, feeAbs, lastBalance = 0, 0, nil
	}

	for _, t := range table {
		key := t.CloseTime.UTC().Format("2006-01")
		if label != "" && key != label {
			flush()
		}
		label = key

		varpc += t.NetProfit
		feeAbs += math.Abs(t.Commission) + math.Abs(t.Swap)
		if t.BalanceAfter != nil {
			lastBalance = t.BalanceAfter
		}
	}
	if label != "" {
		flush()
	}

	return ms, warnings
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
