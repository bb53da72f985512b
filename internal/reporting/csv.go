package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/trungthanhnguyenn/lumir/internal/analytics"
)

// RenderMonthlyCSV renders the monthly compounding series as a CSV string.
func RenderMonthlyCSV(ms analytics.MonthlySeries) string {
	var sb strings.Builder

	sb.WriteString("period,varpc,dividend,rt,index\n")

	for i, period := range ms.Periods {
		rt := ""
		if ms.RT[i] != nil {
			rt = fmt.Sprintf("%.6f", *ms.RT[i])
		}
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%s,%.2f\n",
			period, ms.Varpc[i], ms.Dividend[i], rt, ms.Index[i]))
	}

	return sb.String()
}

// RenderBreakdownCSV renders the three group-by reductions as one CSV
// with a dimension discriminator column. Keys are written in sorted
// order so output is deterministic.
func RenderBreakdownCSV(r *analytics.Report) string {
	var sb strings.Builder

	sb.WriteString("dimension,key,trades,profit,volume,wins,losses\n")

	hours := make([]int, 0, len(r.TimeAnalysis))
	for h := range r.TimeAnalysis {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	for _, h := range hours {
		writeBucketRow(&sb, "hour", fmt.Sprintf("%02d", h), r.TimeAnalysis[h])
	}

	for _, k := range sortedStringKeys(r.SymbolAnalysis) {
		writeBucketRow(&sb, "symbol", k, r.SymbolAnalysis[k])
	}
	for _, k := range sortedStringKeys(r.SideAnalysis) {
		writeBucketRow(&sb, "side", k, r.SideAnalysis[k])
	}

	return sb.String()
}

func writeBucketRow(sb *strings.Builder, dimension, key string, b analytics.DimensionBucket) {
	sb.WriteString(fmt.Sprintf("%s,%s,%d,%.2f,%.2f,%d,%d\n",
		dimension, key, b.TradeCount, b.ProfitSum, b.VolumeSum, b.WinCount, b.LossCount))
}
