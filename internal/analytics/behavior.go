package analytics

import "github.com/trungthanhnguyenn/lumir/internal/domain"

// BehavioralSummary flags risk habits derived purely from
// consecutive-pair relationships in the ordered table.
type BehavioralSummary struct {
	RapidFireCount       int     `json:"rapid_fire_trades"`
	RapidFireRatio       float64 `json:"rapid_fire_ratio"`
	RevengeTradeCount    int     `json:"revenge_trades"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

// detectBehavior scans consecutive pairs once. Close-time deltas are
// non-negative given the sort invariant. A revenge trade requires both
// a prior loss and a close within the revenge window; a break-even
// trade (exactly zero) ends a loss streak.
func detectBehavior(table []*domain.TradeRecord, cfg Config) BehavioralSummary {
	var bs BehavioralSummary

	streak := 0
	for i, t := range table {
		if t.NetProfit < 0 {
			streak++
			if streak > bs.MaxConsecutiveLosses {
				bs.MaxConsecutiveLosses = streak
			}
		} else {
			streak = 0
		}

		if i == 0 {
			continue
		}
		prev := table[i-1]
		delta := t.CloseTime.Sub(prev.CloseTime)

		if delta <= cfg.RapidFireWindow {
			bs.RapidFireCount++
		}
		if prev.NetProfit < 0 && delta <= cfg.RevengeWindow {
			bs.RevengeTradeCount++
		}
	}

	if n := len(table); n > 0 {
		bs.RapidFireRatio = float64(bs.RapidFireCount) / float64(n)
	}
	return bs
}
