package checkout

import (
	"context"
	"errors"
	"testing"

	"warungpos/terminal/internal/domain"
	"warungpos/terminal/internal/localstore"
)

func newTestFlow() (*Flow, *localstore.MemoryStore) {
	local := localstore.NewMemoryStore()
	return New(local, "main-store"), local
}

func TestAddItemMergesSameSKU(t *testing.T) {
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-MIE-01", "Mie Instan", 10000); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.AddItem(ctx, "SKU-MIE-01", "Mie Instan", 10000); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	draft := flow.Draft()
	if len(draft.Items) != 1 {
		t.Fatalf("expected one merged line item, got %d", len(draft.Items))
	}
	if draft.Items[0].Qty != 2 {
		t.Fatalf("expected qty 2, got %d", draft.Items[0].Qty)
	}
	if draft.Items[0].SubtotalCents != 20000 {
		t.Fatalf("expected subtotal 20000, got %d", draft.Items[0].SubtotalCents)
	}
}

func TestTotalsScenario(t *testing.T) {
	// lineItems=[{unitPrice:100, quantity:2}], discount=0 => subtotal=200, total=200.
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	draft := flow.Draft()
	if draft.SubtotalCents() != 200 {
		t.Fatalf("expected subtotal 200, got %d", draft.SubtotalCents())
	}
	if draft.TotalCents() != 200 {
		t.Fatalf("expected total 200, got %d", draft.TotalCents())
	}
}

func TestTotalNeverNegative(t *testing.T) {
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.SetDiscount(ctx, 500); err != nil {
		t.Fatalf("set discount failed: %v", err)
	}

	if total := flow.Draft().TotalCents(); total != 0 {
		t.Fatalf("expected total clamped to 0, got %d", total)
	}
}

func TestPaymentsAndRemaining(t *testing.T) {
	// total=200, payments=[{amount:150}] => paid=150, remaining=50.
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 200); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.AddPayment(ctx, "cash", 150, 1); err != nil {
		t.Fatalf("add payment failed: %v", err)
	}

	draft := flow.Draft()
	if draft.PaidCents() != 150 {
		t.Fatalf("expected paid 150, got %d", draft.PaidCents())
	}
	if draft.RemainingCents() != 50 {
		t.Fatalf("expected remaining 50, got %d", draft.RemainingCents())
	}

	if err := flow.AddPayment(ctx, "card", 100, 1); err != nil {
		t.Fatalf("add payment failed: %v", err)
	}
	if remaining := flow.Draft().RemainingCents(); remaining != 0 {
		t.Fatalf("expected remaining clamped to 0, got %d", remaining)
	}
}

func TestDeferredPaymentDoesNotReduceRemaining(t *testing.T) {
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 200); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.SetDeferredPayment(ctx, true, 200, "cash"); err != nil {
		t.Fatalf("set deferred failed: %v", err)
	}

	if remaining := flow.Draft().RemainingCents(); remaining != 200 {
		t.Fatalf("expected remaining 200 with deferred payment active, got %d", remaining)
	}
}

func TestNextGuardsBlockWithoutAdvancing(t *testing.T) {
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.Next(ctx); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if flow.Step() != domain.StepProductSelection {
		t.Fatalf("step advanced despite failed guard: %d", flow.Step())
	}

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.Next(ctx); err != nil {
		t.Fatalf("expected 1->2 to pass, got %v", err)
	}

	if err := flow.Next(ctx); !errors.Is(err, ErrCustomerRequired) {
		t.Fatalf("expected customer required, got %v", err)
	}
	if err := flow.SetCustomer(ctx, "cust-1"); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	if err := flow.Next(ctx); !errors.Is(err, ErrDeliveryTermRequired) {
		t.Fatalf("expected delivery term required, got %v", err)
	}
	if flow.Step() != domain.StepCustomerAndDelivery {
		t.Fatalf("step advanced despite failed guard: %d", flow.Step())
	}

	if err := flow.SetDeliveryTerm(ctx, domain.DeliveryTerm15Days); err != nil {
		t.Fatalf("set delivery term failed: %v", err)
	}
	if err := flow.Next(ctx); err != nil {
		t.Fatalf("expected 2->3 to pass, got %v", err)
	}
	if flow.Step() != domain.StepPayment {
		t.Fatalf("expected payment step, got %d", flow.Step())
	}
}

func TestBackPreservesDraft(t *testing.T) {
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.Next(ctx); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if err := flow.Back(ctx); err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if flow.Step() != domain.StepProductSelection {
		t.Fatalf("expected step 1, got %d", flow.Step())
	}
	if len(flow.Draft().Items) != 1 {
		t.Fatalf("back navigation dropped line items")
	}
}

func TestEveryMutationSnapshotsDraft(t *testing.T) {
	flow, local := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.SetNotes(ctx, "deliver in the morning"); err != nil {
		t.Fatalf("set notes failed: %v", err)
	}

	saved, err := local.LoadDraft(ctx)
	if err != nil {
		t.Fatalf("expected persisted snapshot: %v", err)
	}
	if len(saved.Items) != 1 || saved.Notes != "deliver in the morning" {
		t.Fatalf("snapshot does not match draft: %+v", saved)
	}
}

func TestRestoreResumesSnapshot(t *testing.T) {
	local := localstore.NewMemoryStore()
	ctx := context.Background()

	flow := New(local, "main-store")
	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.Next(ctx); err != nil {
		t.Fatalf("next failed: %v", err)
	}

	restored := Restore(ctx, local, "main-store")
	if restored.Step() != domain.StepCustomerAndDelivery {
		t.Fatalf("expected restored step 2, got %d", restored.Step())
	}
	if len(restored.Draft().Items) != 1 {
		t.Fatalf("expected restored line items")
	}
}

func TestRestoreWithoutSnapshotStartsFresh(t *testing.T) {
	local := localstore.NewMemoryStore()

	flow := Restore(context.Background(), local, "main-store")
	if flow.Step() != domain.StepProductSelection {
		t.Fatalf("expected fresh flow at step 1, got %d", flow.Step())
	}
	if len(flow.Draft().Items) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestRemoveItemByPosition(t *testing.T) {
	flow, _ := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.AddItem(ctx, "SKU-B", "B", 200); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := flow.RemoveItem(ctx, 0); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	draft := flow.Draft()
	if len(draft.Items) != 1 || draft.Items[0].SKU != "SKU-B" {
		t.Fatalf("expected only SKU-B left, got %+v", draft.Items)
	}

	if err := flow.RemoveItem(ctx, 5); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected invalid index error, got %v", err)
	}
}

func TestResetClearsDraftAndSnapshot(t *testing.T) {
	flow, local := newTestFlow()
	ctx := context.Background()

	if err := flow.AddItem(ctx, "SKU-A", "A", 100); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := flow.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if len(flow.Draft().Items) != 0 || flow.Step() != domain.StepProductSelection {
		t.Fatalf("expected empty draft after reset")
	}
	if _, err := local.LoadDraft(ctx); !errors.Is(err, localstore.ErrNoDraft) {
		t.Fatalf("expected snapshot cleared, got %v", err)
	}
}
