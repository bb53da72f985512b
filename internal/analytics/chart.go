package analytics

// ChartData is the plotting-ready reshape of the equity series. No new
// computation happens here.
type ChartData struct {
	Labels      []int     `json:"labels"` // 1..N
	Equity      []float64 `json:"equity"`
	DrawdownPct []float64 `json:"drawdown_pct"`
}

func assembleChart(es EquitySeries) ChartData {
	labels := make([]int, len(es.RB))
	for i := range labels {
		labels[i] = i + 1
	}
	return ChartData{
		Labels:      labels,
		Equity:      es.RB,
		DrawdownPct: es.DDPct,
	}
}
