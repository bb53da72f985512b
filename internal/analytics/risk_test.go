package analytics

import (
	"testing"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

func dayTrade(day int, hour int, np float64, volume *float64) *domain.TradeRecord {
	return &domain.TradeRecord{
		Symbol:    "EURUSD",
		Side:      domain.SideBuy,
		CloseTime: time.Date(2024, 7, day, hour, 0, 0, 0, time.UTC),
		NetProfit: np,
		Volume:    volume,
	}
}

func TestRecommendRisk_DailyGrouping(t *testing.T) {
	table := []*domain.TradeRecord{
		dayTrade(1, 9, 100, nil),
		dayTrade(1, 15, -150, nil), // day 1 pnl -50
		dayTrade(2, 10, 30, nil),   // day 2 pnl +30
		dayTrade(3, 11, -80, nil),  // day 3 pnl -80 (worst day)
	}

	rk := recommendRisk(table, DefaultConfig())

	if !approx(rk.AvgTradesPerDay, 4.0/3.0) {
		t.Errorf("expected avg trades/day 1.333, got %f", rk.AvgTradesPerDay)
	}
	// ceil(1.333 * 1.5) = 2
	if rk.MaxTradesPerDay != 2 {
		t.Errorf("expected max trades/day 2, got %d", rk.MaxTradesPerDay)
	}
	// 0.8 * |-150| = 120
	if !approx(rk.MaxRiskPerTrade, 120) {
		t.Errorf("expected max risk/trade 120, got %f", rk.MaxRiskPerTrade)
	}
	// 0.8 * |-80| = 64
	if !approx(rk.DailyStopLimit, 64) {
		t.Errorf("expected daily stop 64, got %f", rk.DailyStopLimit)
	}
}

func TestRecommendRisk_PositionSizeFromVolume(t *testing.T) {
	table := []*domain.TradeRecord{
		dayTrade(1, 9, 10, vol(0.5)),
		dayTrade(1, 10, 10, vol(1.5)),
		dayTrade(1, 11, 10, nil), // missing volume rows are skipped, not zeroed
	}

	rk := recommendRisk(table, DefaultConfig())

	if !approx(rk.RecommendedPositionSize, 1.0) {
		t.Errorf("expected recommended size 1.0, got %f", rk.RecommendedPositionSize)
	}
}

func TestRecommendRisk_NoVolumeColumn(t *testing.T) {
	table := []*domain.TradeRecord{dayTrade(1, 9, 10, nil)}

	rk := recommendRisk(table, DefaultConfig())

	if rk.RecommendedPositionSize != 0 {
		t.Errorf("expected recommended size 0 without volume, got %f", rk.RecommendedPositionSize)
	}
}

func TestRecommendRisk_NoLosingDay(t *testing.T) {
	table := []*domain.TradeRecord{
		dayTrade(1, 9, 50, nil),
		dayTrade(2, 9, 60, nil),
	}

	rk := recommendRisk(table, DefaultConfig())

	if rk.DailyStopLimit != 0 {
		t.Errorf("expected daily stop 0 with no losing day, got %f", rk.DailyStopLimit)
	}
}

func TestRecommendRisk_EmptyTable(t *testing.T) {
	rk := recommendRisk(nil, DefaultConfig())

	// days_count floors at one: no division fault, everything zero.
	if rk.AvgTradesPerDay != 0 || rk.MaxTradesPerDay != 0 {
		t.Errorf("expected zero trade-rate recommendations, got %+v", rk)
	}
	if rk.MaxRiskPerTrade != 0 || rk.DailyStopLimit != 0 {
		t.Errorf("expected zero risk limits, got %+v", rk)
	}
}

func TestRecommendRisk_TunableMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTradesPerDayMultiplier = 3.0
	cfg.RiskHaircut = 0.5

	table := []*domain.TradeRecord{
		dayTrade(1, 9, -100, nil),
		dayTrade(1, 10, 40, nil),
	}

	rk := recommendRisk(table, cfg)

	// ceil(2 * 3.0) = 6
	if rk.MaxTradesPerDay != 6 {
		t.Errorf("expected max trades/day 6, got %d", rk.MaxTradesPerDay)
	}
	if !approx(rk.MaxRiskPerTrade, 50) {
		t.Errorf("expected max risk 50 with 0.5 haircut, got %f", rk.MaxRiskPerTrade)
	}
}
