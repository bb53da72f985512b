package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.TradeID] = &copy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(trades))

	// First pass: check for duplicates (existing + intra-batch)
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}

		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range trades {
		copy := *t
		s.data[t.TradeID] = &copy
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *t
	return &copy, nil
}

// GetByLedger retrieves all trades for a ledger, ordered by close_time ASC.
func (s *TradeStore) GetByLedger(_ context.Context, ledgerID string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.LedgerID == ledgerID {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortByCloseTime(result)
	return result, nil
}

// GetByTimeRange retrieves a ledger's trades closed within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(_ context.Context, ledgerID string, start, end time.Time) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.LedgerID != ledgerID {
			continue
		}
		if t.CloseTime.Before(start) || t.CloseTime.After(end) {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}

	sortByCloseTime(result)
	return result, nil
}

func sortByCloseTime(trades []*domain.TradeRecord) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].CloseTime.Equal(trades[j].CloseTime) {
			return trades[i].TradeID < trades[j].TradeID
		}
		return trades[i].CloseTime.Before(trades[j].CloseTime)
	})
}

var _ storage.TradeStore = (*TradeStore)(nil)
