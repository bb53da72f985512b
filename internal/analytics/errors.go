package analytics

import (
	"fmt"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// SchemaError reports a required field that is absent or invalid in the
// input table. The engine never fabricates required data.
type SchemaError struct {
	Row   int    // zero-based position in the input table
	Field string // offending column
	Msg   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: row %d: field %q %s", e.Row, e.Field, e.Msg)
}

// validateTable fails fast on the first record missing a required field.
func validateTable(table []*domain.TradeRecord) error {
	for i, t := range table {
		switch {
		case t == nil:
			return &SchemaError{Row: i, Field: "record", Msg: "is nil"}
		case t.Symbol == "":
			return &SchemaError{Row: i, Field: "symbol", Msg: "is empty"}
		case t.Side != domain.SideBuy && t.Side != domain.SideSell:
			return &SchemaError{Row: i, Field: "side", Msg: fmt.Sprintf("has unnormalized value %q", t.Side)}
		case t.CloseTime.IsZero():
			return &SchemaError{Row: i, Field: "close_time", Msg: "is unset"}
		}
	}
	return nil
}
