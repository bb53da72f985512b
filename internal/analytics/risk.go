package analytics

import (
	"math"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// RiskRecommendation derives position-sizing guidance from historical
// extremes. The haircut and multiplier are deliberate tunables, not
// measured statistics.
type RiskRecommendation struct {
	AvgTradesPerDay         float64 `json:"avg_trades_per_day"`
	MaxTradesPerDay         int     `json:"max_trades_per_day"`
	RecommendedPositionSize float64 `json:"recommended_position_size"`
	MaxRiskPerTrade         float64 `json:"max_risk_per_trade"`
	DailyStopLimit          float64 `json:"daily_stop_limit"`
}

// recommendRisk groups trades by calendar date of close. days_count is
// floored at one so single-day and empty tables never divide by zero.
func recommendRisk(table []*domain.TradeRecord, cfg Config) RiskRecommendation {
	var rk RiskRecommendation

	dailyPnL := make(map[string]float64)
	var (
		volumeSum   float64
		volumeCount int
		worstTrade  float64
	)

	for i, t := range table {
		day := t.CloseTime.UTC().Format("2006-01-02")
		dailyPnL[day] += t.NetProfit

		if t.Volume != nil {
			volumeSum += *t.Volume
			volumeCount++
		}
		if i == 0 || t.NetProfit < worstTrade {
			worstTrade = t.NetProfit
		}
	}

	// Most negative day; zero when there is no losing day.
	minDailyLoss := 0.0
	for _, pnl := range dailyPnL {
		if pnl < minDailyLoss {
			minDailyLoss = pnl
		}
	}

	daysCount := len(dailyPnL)
	if daysCount < 1 {
		daysCount = 1
	}
	rk.AvgTradesPerDay = float64(len(table)) / float64(daysCount)
	rk.MaxTradesPerDay = int(math.Ceil(rk.AvgTradesPerDay * cfg.MaxTradesPerDayMultiplier))

	if volumeCount > 0 {
		rk.RecommendedPositionSize = volumeSum / float64(volumeCount)
	}

	rk.MaxRiskPerTrade = round2(cfg.RiskHaircut * math.Abs(worstTrade))
	rk.DailyStopLimit = round2(cfg.RiskHaircut * math.Abs(minDailyLoss))

	return rk
}
