package analytics

import "github.com/trungthanhnguyenn/lumir/internal/domain"

// DimensionBucket is one group-by accumulator, reused for the
// hour/symbol/side breakdowns. Trades with exactly zero profit are
// neither wins nor losses, so WinCount+LossCount <= TradeCount.
type DimensionBucket struct {
	TradeCount int     `json:"trades"`
	ProfitSum  float64 `json:"profit"`
	VolumeSum  float64 `json:"volume"`
	WinCount   int     `json:"wins"`
	LossCount  int     `json:"losses"`
}

// buildBreakdowns runs the three independent group-by reductions in one
// linear scan. Only observed keys get buckets; results depend on set
// membership alone, not row order.
func buildBreakdowns(table []*domain.TradeRecord) (byHour map[int]DimensionBucket, bySymbol, bySide map[string]DimensionBucket) {
	byHour = make(map[int]DimensionBucket)
	bySymbol = make(map[string]DimensionBucket)
	bySide = make(map[string]DimensionBucket)

	for _, t := range table {
		accumulate(byHour, t.CloseTime.UTC().Hour(), t)
		accumulate(bySymbol, t.Symbol, t)
		accumulate(bySide, t.Side, t)
	}
	return byHour, bySymbol, bySide
}

func accumulate[K comparable](m map[K]DimensionBucket, key K, t *domain.TradeRecord) {
	b := m[key]
	b.TradeCount++
	b.ProfitSum += t.NetProfit
	if t.Volume != nil {
		b.VolumeSum += *t.Volume
	}
	switch {
	case t.NetProfit > 0:
		b.WinCount++
	case t.NetProfit < 0:
		b.LossCount++
	}
	m[key] = b
}
