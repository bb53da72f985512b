package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/storage"
)

func snapAt(day int) *domain.ReportSnapshot {
	return &domain.ReportSnapshot{
		LedgerID:    "acct-1",
		GeneratedAt: time.Date(2025, 1, day, 12, 0, 0, 0, time.UTC),
		Trades:      42,
		NetProfit:   310.5,
	}
}

func TestReportSnapshotStore_InsertAndGet(t *testing.T) {
	store := NewReportSnapshotStore()
	ctx := context.Background()

	if err := store.Insert(ctx, snapAt(2)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByLedger(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetByLedger failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(got))
	}
	if got[0].Trades != 42 {
		t.Errorf("Trades mismatch: got %d, want 42", got[0].Trades)
	}
}

func TestReportSnapshotStore_DuplicateKey(t *testing.T) {
	store := NewReportSnapshotStore()
	ctx := context.Background()

	if err := store.Insert(ctx, snapAt(2)); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, snapAt(2))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same ledger, different generated_at is a distinct key.
	if err := store.Insert(ctx, snapAt(3)); err != nil {
		t.Errorf("Insert with distinct generated_at failed: %v", err)
	}
}

func TestReportSnapshotStore_OrderedByGeneratedAt(t *testing.T) {
	store := NewReportSnapshotStore()
	ctx := context.Background()

	for _, day := range []int{9, 3, 6} {
		if err := store.Insert(ctx, snapAt(day)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByLedger(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetByLedger failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].GeneratedAt.Before(got[i-1].GeneratedAt) {
			t.Errorf("Snapshots out of order at %d", i)
		}
	}
}

func TestReportSnapshotStore_InvalidInput(t *testing.T) {
	store := NewReportSnapshotStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil snapshot, got %v", err)
	}
	if err := store.Insert(ctx, &domain.ReportSnapshot{LedgerID: "acct-1"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero generated_at, got %v", err)
	}
}

func TestReportSnapshotStore_UnknownLedgerEmpty(t *testing.T) {
	store := NewReportSnapshotStore()

	got, err := store.GetByLedger(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetByLedger failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no snapshots, got %d", len(got))
	}
}
