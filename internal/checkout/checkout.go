// Package checkout drives the three-step sale flow at the terminal:
// product selection, customer and delivery, payment. The draft is mutated
// only through Flow methods and every mutation re-serializes the whole
// draft into the localstore so a crash or reload resumes where it left off.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"warungpos/terminal/internal/domain"
	"warungpos/terminal/internal/localstore"
)

var (
	ErrEmptyCart            = errors.New("at least one line item required")
	ErrCustomerRequired     = errors.New("customer required")
	ErrDeliveryTermRequired = errors.New("delivery term required")
	ErrInvalidIndex         = errors.New("invalid index")
	ErrInvalidInput         = errors.New("invalid input")
)

type Flow struct {
	local localstore.Store
	draft domain.SaleDraft
}

func New(local localstore.Store, storeID string) *Flow {
	return &Flow{
		local: local,
		draft: emptyDraft(storeID),
	}
}

// Restore returns a flow resumed from a previous draft snapshot, or a fresh
// flow when no snapshot exists.
func Restore(ctx context.Context, local localstore.Store, storeID string) *Flow {
	flow := New(local, storeID)

	draft, err := local.LoadDraft(ctx)
	if err != nil {
		if !errors.Is(err, localstore.ErrNoDraft) {
			log.Printf("[checkout] WARN: failed to restore draft snapshot: %v", err)
		}
		return flow
	}
	if draft.Step < domain.StepProductSelection || draft.Step > domain.StepPayment {
		draft.Step = domain.StepProductSelection
	}
	if draft.StoreID == "" {
		draft.StoreID = storeID
	}
	flow.draft = draft
	return flow
}

func emptyDraft(storeID string) domain.SaleDraft {
	return domain.SaleDraft{
		Step:     domain.StepProductSelection,
		StoreID:  storeID,
		SaleDate: time.Now().UTC(),
		Items:    []domain.LineItem{},
		Payments: []domain.Payment{},
	}
}

func (f *Flow) Draft() domain.SaleDraft {
	return f.draft
}

func (f *Flow) Step() int {
	return f.draft.Step
}

func (f *Flow) snapshot(ctx context.Context) error {
	if err := f.local.SaveDraft(ctx, f.draft); err != nil {
		return fmt.Errorf("snapshot draft: %w", err)
	}
	return nil
}

// Next advances the flow one step. A failed guard leaves the step unchanged.
func (f *Flow) Next(ctx context.Context) error {
	switch f.draft.Step {
	case domain.StepProductSelection:
		if len(f.draft.Items) == 0 {
			return ErrEmptyCart
		}
	case domain.StepCustomerAndDelivery:
		if f.draft.CustomerID == "" {
			return ErrCustomerRequired
		}
		if f.draft.DeliveryTerm == "" {
			return ErrDeliveryTermRequired
		}
	default:
		return fmt.Errorf("%w: already at final step", ErrInvalidInput)
	}

	f.draft.Step++
	return f.snapshot(ctx)
}

// Back is always permitted and preserves the draft.
func (f *Flow) Back(ctx context.Context) error {
	if f.draft.Step <= domain.StepProductSelection {
		return nil
	}
	f.draft.Step--
	return f.snapshot(ctx)
}

// AddItem merges into an existing line for the same SKU (quantity +1,
// subtotal recomputed) or appends a fresh line with quantity 1. Quantity is
// purely addition-driven; there is no decrement at this layer.
func (f *Flow) AddItem(ctx context.Context, sku string, name string, unitPriceCents int64) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" || unitPriceCents < 1 {
		return ErrInvalidInput
	}

	merged := false
	for i := range f.draft.Items {
		if f.draft.Items[i].SKU == sku {
			f.draft.Items[i].Qty++
			f.draft.Items[i].SubtotalCents = int64(f.draft.Items[i].Qty) * f.draft.Items[i].UnitPriceCents
			merged = true
			break
		}
	}
	if !merged {
		f.draft.Items = append(f.draft.Items, domain.LineItem{
			SKU:            sku,
			Name:           strings.TrimSpace(name),
			Qty:            1,
			UnitPriceCents: unitPriceCents,
			SubtotalCents:  unitPriceCents,
		})
	}
	return f.snapshot(ctx)
}

func (f *Flow) RemoveItem(ctx context.Context, index int) error {
	if index < 0 || index >= len(f.draft.Items) {
		return ErrInvalidIndex
	}
	f.draft.Items = append(f.draft.Items[:index], f.draft.Items[index+1:]...)
	return f.snapshot(ctx)
}

func (f *Flow) SetCustomer(ctx context.Context, customerID string) error {
	f.draft.CustomerID = strings.TrimSpace(customerID)
	return f.snapshot(ctx)
}

func (f *Flow) SetSaleDate(ctx context.Context, date time.Time) error {
	f.draft.SaleDate = date.UTC()
	return f.snapshot(ctx)
}

func (f *Flow) SetDeliveryTerm(ctx context.Context, term string) error {
	if !domain.IsDeliveryTerm(term) {
		return fmt.Errorf("%w: unknown delivery term %q", ErrInvalidInput, term)
	}
	f.draft.DeliveryTerm = term
	return f.snapshot(ctx)
}

func (f *Flow) SetDiscount(ctx context.Context, discountCents int64) error {
	if discountCents < 0 {
		return ErrInvalidInput
	}
	f.draft.DiscountCents = discountCents
	return f.snapshot(ctx)
}

func (f *Flow) SetNotes(ctx context.Context, notes string) error {
	f.draft.Notes = strings.TrimSpace(notes)
	return f.snapshot(ctx)
}

func (f *Flow) AddPayment(ctx context.Context, method string, amountCents int64, installments int) error {
	method = strings.TrimSpace(method)
	if method == "" || amountCents < 1 {
		return ErrInvalidInput
	}
	if installments < 1 {
		installments = 1
	}
	f.draft.Payments = append(f.draft.Payments, domain.Payment{
		Method:       method,
		AmountCents:  amountCents,
		Installments: installments,
	})
	return f.snapshot(ctx)
}

func (f *Flow) RemovePayment(ctx context.Context, index int) error {
	if index < 0 || index >= len(f.draft.Payments) {
		return ErrInvalidIndex
	}
	f.draft.Payments = append(f.draft.Payments[:index], f.draft.Payments[index+1:]...)
	return f.snapshot(ctx)
}

// SetDeferredPayment records a collect-on-delivery amount. It never reduces
// the remaining balance; it only permits committing with remaining > 0.
func (f *Flow) SetDeferredPayment(ctx context.Context, active bool, amountCents int64, method string) error {
	if active && amountCents < 1 {
		return ErrInvalidInput
	}
	if !active {
		amountCents = 0
		method = ""
	}
	f.draft.Deferred = domain.DeferredPayment{
		Active:      active,
		AmountCents: amountCents,
		Method:      strings.TrimSpace(method),
	}
	return f.snapshot(ctx)
}

// ValidateCommit reports whether the draft may reach the commit action.
func ValidateCommit(draft domain.SaleDraft) error {
	if len(draft.Items) == 0 {
		return ErrEmptyCart
	}
	if draft.CustomerID == "" {
		return ErrCustomerRequired
	}
	if draft.DeliveryTerm == "" {
		return ErrDeliveryTermRequired
	}
	return nil
}

// Reset destroys the draft after a successful commit and clears its
// snapshot. The flow starts over at product selection.
func (f *Flow) Reset(ctx context.Context) error {
	f.draft = emptyDraft(f.draft.StoreID)
	if err := f.local.ClearDraft(ctx); err != nil {
		return fmt.Errorf("clear draft snapshot: %w", err)
	}
	return nil
}
