package analytics

import (
	"testing"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// pairedTrades builds a table where trade i closes gap[i] after trade i-1.
func pairedTrades(profits []float64, gaps []time.Duration) []*domain.TradeRecord {
	base := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	table := make([]*domain.TradeRecord, len(profits))
	at := base
	for i, p := range profits {
		if i > 0 {
			at = at.Add(gaps[i-1])
		}
		table[i] = &domain.TradeRecord{
			Symbol:    "USDJPY",
			Side:      domain.SideBuy,
			CloseTime: at,
			NetProfit: p,
		}
	}
	return table
}

func TestDetectBehavior_RapidFireBoundary(t *testing.T) {
	// Gaps: exactly 5m (counts), 5m1s (does not), 1m (counts).
	table := pairedTrades(
		[]float64{10, 10, 10, 10},
		[]time.Duration{5 * time.Minute, 5*time.Minute + time.Second, time.Minute},
	)

	bs := detectBehavior(table, DefaultConfig())

	if bs.RapidFireCount != 2 {
		t.Errorf("expected 2 rapid-fire trades, got %d", bs.RapidFireCount)
	}
	if !approx(bs.RapidFireRatio, 0.5) {
		t.Errorf("expected rapid-fire ratio 0.5, got %f", bs.RapidFireRatio)
	}
}

func TestDetectBehavior_RevengeNeedsLossAndWindow(t *testing.T) {
	// Pair 1: prior win, 10m gap → not revenge.
	// Pair 2: prior loss, 10m gap → revenge.
	// Pair 3: prior loss, 31m gap → outside window, not revenge.
	table := pairedTrades(
		[]float64{10, -5, -5, 10},
		[]time.Duration{10 * time.Minute, 10 * time.Minute, 31 * time.Minute},
	)

	bs := detectBehavior(table, DefaultConfig())

	if bs.RevengeTradeCount != 1 {
		t.Errorf("expected 1 revenge trade, got %d", bs.RevengeTradeCount)
	}
}

func TestDetectBehavior_BreakevenEndsLossStreak(t *testing.T) {
	table := pairedTrades(
		[]float64{-1, -1, 0, -1, -1, -1, 5},
		[]time.Duration{time.Hour, time.Hour, time.Hour, time.Hour, time.Hour, time.Hour},
	)

	bs := detectBehavior(table, DefaultConfig())

	if bs.MaxConsecutiveLosses != 3 {
		t.Errorf("expected max streak 3 (zero breaks a streak), got %d", bs.MaxConsecutiveLosses)
	}
}

func TestDetectBehavior_TunableWindows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RapidFireWindow = time.Minute
	cfg.RevengeWindow = 2 * time.Minute

	table := pairedTrades(
		[]float64{-5, 10, 10},
		[]time.Duration{90 * time.Second, 30 * time.Second},
	)

	bs := detectBehavior(table, cfg)

	// 90s gap: outside 1m rapid-fire window, inside 2m revenge window.
	if bs.RapidFireCount != 1 {
		t.Errorf("expected 1 rapid-fire trade, got %d", bs.RapidFireCount)
	}
	if bs.RevengeTradeCount != 1 {
		t.Errorf("expected 1 revenge trade, got %d", bs.RevengeTradeCount)
	}
}

func TestDetectBehavior_SingleTrade(t *testing.T) {
	table := pairedTrades([]float64{-10}, nil)

	bs := detectBehavior(table, DefaultConfig())

	if bs.RapidFireCount != 0 || bs.RevengeTradeCount != 0 {
		t.Error("single trade has no consecutive pairs")
	}
	if bs.MaxConsecutiveLosses != 1 {
		t.Errorf("expected streak 1, got %d", bs.MaxConsecutiveLosses)
	}
}
