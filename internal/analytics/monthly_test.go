package analytics

import (
	"testing"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

func monthlyTrade(y int, m time.Month, d int, np, comm, swap float64, balance *float64) *domain.TradeRecord {
	return &domain.TradeRecord{
		Symbol:       "GBPUSD",
		Side:         domain.SideBuy,
		CloseTime:    time.Date(y, m, d, 14, 0, 0, 0, time.UTC),
		NetProfit:    np,
		Commission:   comm,
		Swap:         swap,
		BalanceAfter: balance,
	}
}

func bal(v float64) *float64 { return &v }

func TestBuildMonthly_FirstPeriodResetsIndex(t *testing.T) {
	table := []*domain.TradeRecord{
		monthlyTrade(2024, time.January, 10, 100, -2, -1, bal(1100)),
	}

	ms, warnings := buildMonthly(table)

	if len(ms.Periods) != 1 || ms.Periods[0] != "2024-01" {
		t.Fatalf("expected single period 2024-01, got %v", ms.Periods)
	}
	if ms.RT[0] != nil {
		t.Errorf("expected nil return for first period, got %v", *ms.RT[0])
	}
	if !approx(ms.Index[0], 100.0) {
		t.Errorf("expected index reset to 100, got %f", ms.Index[0])
	}
	if len(warnings) != 0 {
		t.Errorf("first-period reset is expected, not a warning: %v", warnings)
	}
}

func TestBuildMonthly_CarryForwardCompounding(t *testing.T) {
	table := []*domain.TradeRecord{
		// January: varpc 100, fees 3, closing balance 1000.
		monthlyTrade(2024, time.January, 10, 100, -2, -1, bal(1000)),
		// February: varpc 50, fees 6 → dividend -6,
		// rt = (50 - (-6)) / 1000 = 0.056 → index 105.6.
		monthlyTrade(2024, time.February, 5, 30, -2, -1, bal(1030)),
		monthlyTrade(2024, time.February, 20, 20, -2, -1, bal(1050)),
		// March: varpc -40, fees 3 → dividend -3,
		// rt = (-40 - (-3)) / 1050 → index compounds on 105.6.
		monthlyTrade(2024, time.March, 15, -40, -2, -1, bal(1010)),
	}

	ms, warnings := buildMonthly(table)

	if len(ms.Periods) != 3 {
		t.Fatalf("expected 3 periods, got %v", ms.Periods)
	}
	if !approx(ms.Varpc[1], 50) {
		t.Errorf("expected February varpc 50, got %f", ms.Varpc[1])
	}
	if !approx(ms.Dividend[1], -6) {
		t.Errorf("expected February dividend -6, got %f", ms.Dividend[1])
	}
	if ms.RT[1] == nil || !approx(*ms.RT[1], 0.056) {
		t.Fatalf("expected February return 0.056, got %v", ms.RT[1])
	}
	if !approx(ms.Index[1], 105.6) {
		t.Errorf("expected February index 105.6, got %f", ms.Index[1])
	}

	rtMarch := (-40.0 - (-3.0)) / 1050.0
	if ms.RT[2] == nil || !approx(*ms.RT[2], rtMarch) {
		t.Fatalf("expected March return %f, got %v", rtMarch, ms.RT[2])
	}
	if !approx(ms.Index[2], round2(105.6*(1+rtMarch))) {
		t.Errorf("expected March index %f, got %f", round2(105.6*(1+rtMarch)), ms.Index[2])
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestBuildMonthly_InteriorNullSurfacesWarning(t *testing.T) {
	table := []*domain.TradeRecord{
		monthlyTrade(2024, time.January, 10, 100, -2, -1, bal(1000)),
		// February carries no balance column value.
		monthlyTrade(2024, time.February, 5, 50, -2, -1, nil),
		// March has no prior closing balance → null return mid-series.
		monthlyTrade(2024, time.March, 15, 20, -2, -1, bal(1070)),
	}

	ms, warnings := buildMonthly(table)

	if ms.RT[2] != nil {
		t.Fatalf("expected nil return for March, got %v", *ms.RT[2])
	}
	if !approx(ms.Index[2], 100.0) {
		t.Errorf("expected March index reset to 100, got %f", ms.Index[2])
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one data-quality warning, got %v", warnings)
	}
}

func TestBuildMonthly_NoBalanceColumn(t *testing.T) {
	// Ledger without balance_after: every return is null, every index 100.
	table := []*domain.TradeRecord{
		monthlyTrade(2024, time.January, 10, 100, 0, 0, nil),
		monthlyTrade(2024, time.February, 10, -20, 0, 0, nil),
	}

	ms, _ := buildMonthly(table)

	for i := range ms.Periods {
		if ms.RT[i] != nil {
			t.Errorf("period %s: expected nil return", ms.Periods[i])
		}
		if !approx(ms.Index[i], 100.0) {
			t.Errorf("period %s: expected index 100, got %f", ms.Periods[i], ms.Index[i])
		}
	}
}

func TestBuildMonthly_Empty(t *testing.T) {
	ms, warnings := buildMonthly(nil)

	if len(ms.Periods) != 0 || len(ms.Index) != 0 {
		t.Error("expected empty monthly series for empty table")
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
