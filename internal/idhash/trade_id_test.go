package idhash

import "testing"

func TestComputeTradeID_Deterministic(t *testing.T) {
	a := ComputeTradeID("ledger-1", "XAUUSD", 1714650000000, 0)
	b := ComputeTradeID("ledger-1", "XAUUSD", 1714650000000, 0)

	if a != b {
		t.Errorf("expected identical IDs, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex ID, got %d chars", len(a))
	}
}

func TestComputeTradeID_RowDisambiguates(t *testing.T) {
	// Two trades closed in the same millisecond must not collide.
	a := ComputeTradeID("ledger-1", "XAUUSD", 1714650000000, 0)
	b := ComputeTradeID("ledger-1", "XAUUSD", 1714650000000, 1)

	if a == b {
		t.Error("expected distinct IDs for distinct rows")
	}
}

func TestComputeTradeID_LedgerScoped(t *testing.T) {
	a := ComputeTradeID("ledger-1", "EURUSD", 1714650000000, 0)
	b := ComputeTradeID("ledger-2", "EURUSD", 1714650000000, 0)

	if a == b {
		t.Error("expected distinct IDs across ledgers")
	}
}
