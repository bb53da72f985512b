package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(ledger_id|symbol|close_time_ms|row)
// The source row number disambiguates identical trades closed in the
// same millisecond, so re-ingesting the same ledger is idempotent.
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(ledgerID, symbol string, closeTimeMs int64, row int) string {
	data := fmt.Sprintf("%s|%s|%d|%d", ledgerID, symbol, closeTimeMs, row)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
