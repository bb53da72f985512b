package analytics

import (
	"testing"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

func vol(v float64) *float64 { return &v }

func TestBuildBreakdowns_ObservedKeysOnly(t *testing.T) {
	table := []*domain.TradeRecord{
		{Symbol: "EURUSD", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC), NetProfit: 10},
		{Symbol: "EURUSD", Side: domain.SideSell, CloseTime: time.Date(2024, 1, 2, 9, 45, 0, 0, time.UTC), NetProfit: -4},
		{Symbol: "XAUUSD", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC), NetProfit: 0},
	}

	byHour, bySymbol, bySide := buildBreakdowns(table)

	if len(byHour) != 2 {
		t.Errorf("expected 2 hour buckets (no synthetic zero-filled keys), got %d", len(byHour))
	}
	h9 := byHour[9]
	if h9.TradeCount != 2 || !approx(h9.ProfitSum, 6) {
		t.Errorf("hour 9: expected 2 trades / profit 6, got %+v", h9)
	}
	if h9.WinCount != 1 || h9.LossCount != 1 {
		t.Errorf("hour 9: expected 1 win / 1 loss, got %+v", h9)
	}

	// Zero-profit trade is neither win nor loss.
	xau := bySymbol["XAUUSD"]
	if xau.WinCount != 0 || xau.LossCount != 0 || xau.TradeCount != 1 {
		t.Errorf("XAUUSD: tie must be neither win nor loss, got %+v", xau)
	}

	if bySide[domain.SideBuy].TradeCount != 2 || bySide[domain.SideSell].TradeCount != 1 {
		t.Errorf("unexpected side counts: %+v", bySide)
	}
}

func TestBuildBreakdowns_VolumeFallsBackToZero(t *testing.T) {
	table := []*domain.TradeRecord{
		{Symbol: "EURUSD", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), NetProfit: 10, Volume: vol(0.5)},
		{Symbol: "EURUSD", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), NetProfit: 5, Volume: vol(1.5)},
		{Symbol: "GBPUSD", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC), NetProfit: 5},
	}

	_, bySymbol, _ := buildBreakdowns(table)

	if !approx(bySymbol["EURUSD"].VolumeSum, 2.0) {
		t.Errorf("expected EURUSD volume 2.0, got %f", bySymbol["EURUSD"].VolumeSum)
	}
	if bySymbol["GBPUSD"].VolumeSum != 0 {
		t.Errorf("expected GBPUSD volume 0 without a volume column, got %f", bySymbol["GBPUSD"].VolumeSum)
	}
}

func TestBuildBreakdowns_OrderIndependent(t *testing.T) {
	table := []*domain.TradeRecord{
		{Symbol: "A", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), NetProfit: 10},
		{Symbol: "B", Side: domain.SideSell, CloseTime: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), NetProfit: -3},
		{Symbol: "A", Side: domain.SideBuy, CloseTime: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC), NetProfit: 7},
	}
	reversed := []*domain.TradeRecord{table[2], table[1], table[0]}

	_, forward, _ := buildBreakdowns(table)
	_, backward, _ := buildBreakdowns(reversed)

	for k, v := range forward {
		if backward[k] != v {
			t.Errorf("symbol %s: buckets differ by input order: %+v vs %+v", k, v, backward[k])
		}
	}
}
