// Package ledger loads broker trade ledgers and normalizes them into
// the domain trade table the analytics engine consumes: headers are
// trimmed, directional labels translated, timestamps parsed day-first
// and numerics coerced with explicit failure.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/idhash"
)

// Required ledger columns. Optional: profit_gross, balance_after, pips,
// volume_lots_closed, quantity_closed.
var requiredColumns = []string{"symbol", "side", "close_time", "net_profit", "commission", "swap"}

// sideLabels maps localized directional labels to the normalized form.
var sideLabels = map[string]string{
	"mua":  domain.SideBuy,
	"bán":  domain.SideSell,
	"buy":  domain.SideBuy,
	"sell": domain.SideSell,
}

// closeTimeLayouts are tried in order. Broker exports are day-first.
var closeTimeLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseCSV reads a ledger export and returns the normalized trade
// table, sorted non-decreasing by close time (stable on ties). Any
// missing required column or non-coercible value fails the whole load;
// required data is never fabricated.
func ParseCSV(r io.Reader, ledgerID string) ([]*domain.TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("ledger %s: empty file", ledgerID)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("ledger %s: required column %q not found", ledgerID, name)
		}
	}

	var table []*domain.TradeRecord
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		t, err := parseRow(record, cols, ledgerID, row)
		if err != nil {
			return nil, err
		}
		table = append(table, t)
		row++
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].CloseTime.Before(table[j].CloseTime)
	})
	return table, nil
}

func parseRow(record []string, cols map[string]int, ledgerID string, row int) (*domain.TradeRecord, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	symbol := field("symbol")
	if symbol == "" {
		return nil, fmt.Errorf("row %d: symbol is empty", row)
	}

	side, ok := sideLabels[strings.ToLower(field("side"))]
	if !ok {
		return nil, fmt.Errorf("row %d: unrecognized side %q", row, field("side"))
	}

	closeTime, err := parseCloseTime(field("close_time"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}

	t := &domain.TradeRecord{
		LedgerID:  ledgerID,
		Symbol:    symbol,
		Side:      side,
		CloseTime: closeTime,
	}
	t.TradeID = idhash.ComputeTradeID(ledgerID, symbol, closeTime.UnixMilli(), row)

	for name, dst := range map[string]*float64{
		"net_profit": &t.NetProfit,
		"commission": &t.Commission,
		"swap":       &t.Swap,
	} {
		v, err := parseNumber(field(name))
		if err != nil {
			return nil, fmt.Errorf("row %d: column %q: %w", row, name, err)
		}
		*dst = v
	}

	for name, dst := range map[string]**float64{
		"profit_gross":  &t.ProfitGross,
		"balance_after": &t.BalanceAfter,
		"pips":          &t.Pips,
	} {
		if raw := field(name); raw != "" {
			v, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", row, name, err)
			}
			*dst = &v
		}
	}

	// Volume prefers explicit closed lots over a generic quantity.
	for _, name := range []string{"volume_lots_closed", "quantity_closed"} {
		if raw := field(name); raw != "" {
			v, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", row, name, err)
			}
			t.Volume = &v
			break
		}
	}

	return t, nil
}

func parseCloseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("close_time is empty")
	}
	for _, layout := range closeTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable close_time %q", raw)
}

func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("value is empty")
	}
	// Tolerate thousands separators from spreadsheet exports.
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number %q", raw)
	}
	return v, nil
}
