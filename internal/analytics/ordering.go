package analytics

import (
	"sort"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
)

// ensureOrdered returns the table in non-decreasing close-time order.
// Already-ordered input is returned as-is. A violation triggers a
// stable sort of a copy (original position breaks ties), never a
// mutation of the caller's slice; ok=false tells the caller to surface
// a data-quality warning. Silently trusting unsorted input would
// corrupt the equity and behavioral results.
func ensureOrdered(table []*domain.TradeRecord) (ordered []*domain.TradeRecord, ok bool) {
	for i := 1; i < len(table); i++ {
		if table[i].CloseTime.Before(table[i-1].CloseTime) {
			sorted := make([]*domain.TradeRecord, len(table))
			copy(sorted, table)
			sort.SliceStable(sorted, func(a, b int) bool {
				return sorted[a].CloseTime.Before(sorted[b].CloseTime)
			})
			return sorted, false
		}
	}
	return table, true
}
