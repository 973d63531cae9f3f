package localstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"warungpos/terminal/internal/domain"
)

func TestFileStoreDraftRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store failed: %v", err)
	}
	ctx := context.Background()

	draft := domain.SaleDraft{
		Step:         domain.StepCustomerAndDelivery,
		CustomerID:   "cust-1",
		DeliveryTerm: domain.DeliveryTerm15Days,
		Items: []domain.LineItem{
			{SKU: "SKU-A", Name: "A", Qty: 3, UnitPriceCents: 100, SubtotalCents: 300},
		},
		Notes: "call before delivering",
	}

	if err := fs.SaveDraft(ctx, draft); err != nil {
		t.Fatalf("save draft failed: %v", err)
	}

	loaded, err := fs.LoadDraft(ctx)
	if err != nil {
		t.Fatalf("load draft failed: %v", err)
	}
	if loaded.CustomerID != "cust-1" || loaded.Step != domain.StepCustomerAndDelivery {
		t.Fatalf("draft did not round-trip: %+v", loaded)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].SubtotalCents != 300 {
		t.Fatalf("line items did not round-trip: %+v", loaded.Items)
	}

	if err := fs.ClearDraft(ctx); err != nil {
		t.Fatalf("clear draft failed: %v", err)
	}
	if _, err := fs.LoadDraft(ctx); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft after clear, got %v", err)
	}
}

func TestFileStoreLoadDraftWhenMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store failed: %v", err)
	}

	if _, err := fs.LoadDraft(context.Background()); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestFileStoreQueueRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store failed: %v", err)
	}
	ctx := context.Background()

	// Missing queue file reads as empty, not as an error.
	entries, err := fs.LoadQueue(ctx)
	if err != nil {
		t.Fatalf("load queue failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(entries))
	}

	saved := []domain.OfflineQueueEntry{
		{
			OfflineID:   "1770000000000",
			OrderNumber: "OFF-1234",
			EnqueuedAt:  time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC),
			Draft:       domain.SaleDraft{CustomerID: "cust-2"},
		},
	}
	if err := fs.SaveQueue(ctx, saved); err != nil {
		t.Fatalf("save queue failed: %v", err)
	}

	loaded, err := fs.LoadQueue(ctx)
	if err != nil {
		t.Fatalf("load queue failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].OfflineID != "1770000000000" || loaded[0].Draft.CustomerID != "cust-2" {
		t.Fatalf("queue did not round-trip: %+v", loaded)
	}
}
