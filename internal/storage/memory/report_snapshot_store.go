package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/storage"
)

// ReportSnapshotStore is an in-memory implementation of storage.ReportSnapshotStore.
type ReportSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ReportSnapshot // keyed by (ledger_id, generated_at)
}

// NewReportSnapshotStore creates a new in-memory report snapshot store.
func NewReportSnapshotStore() *ReportSnapshotStore {
	return &ReportSnapshotStore{
		data: make(map[string]*domain.ReportSnapshot),
	}
}

func snapshotKey(s *domain.ReportSnapshot) string {
	return fmt.Sprintf("%s|%d", s.LedgerID, s.GeneratedAt.UnixMilli())
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if (ledger_id, generated_at) exists.
func (s *ReportSnapshotStore) Insert(_ context.Context, snap *domain.ReportSnapshot) error {
	if snap == nil || snap.LedgerID == "" || snap.GeneratedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := snapshotKey(snap)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *snap
	s.data[key] = &copy
	return nil
}

// GetByLedger retrieves all snapshots for a ledger, ordered by generated_at ASC.
func (s *ReportSnapshotStore) GetByLedger(_ context.Context, ledgerID string) ([]*domain.ReportSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ReportSnapshot
	for _, snap := range s.data {
		if snap.LedgerID == ledgerID {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].GeneratedAt.Before(result[j].GeneratedAt)
	})

	return result, nil
}

var _ storage.ReportSnapshotStore = (*ReportSnapshotStore)(nil)
