package analytics

import "time"

// Config holds the tunable thresholds of the behavioral and risk
// heuristics. Pass DefaultConfig() unless a caller needs to exercise
// boundary values.
type Config struct {
	// RapidFireWindow is the maximum gap between consecutive closes
	// for the later trade to count as rapid-fire.
	RapidFireWindow time.Duration

	// RevengeWindow is the maximum gap after a losing close for the
	// next trade to count as a revenge trade.
	RevengeWindow time.Duration

	// MaxTradesPerDayMultiplier is the safety margin applied to the
	// observed average when recommending a daily trade cap.
	MaxTradesPerDayMultiplier float64

	// RiskHaircut is the conservative factor applied to the single
	// worst observed trade and worst observed day.
	RiskHaircut float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		RapidFireWindow:           5 * time.Minute,
		RevengeWindow:             30 * time.Minute,
		MaxTradesPerDayMultiplier: 1.5,
		RiskHaircut:               0.8,
	}
}
