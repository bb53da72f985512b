package reporting

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trungthanhnguyenn/lumir/internal/analytics"
)

// WriteJSON writes the report as indented JSON. Marshaling is
// deterministic: map keys are sorted by encoding/json and the report
// carries no timestamps.
func WriteJSON(w io.Writer, r *analytics.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
