// Package service orchestrates the commit side of the terminal: finalize a
// draft online or enqueue it offline, and drain the offline queue back
// through the same online commit path.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"warungpos/terminal/internal/checkout"
	"warungpos/terminal/internal/connectivity"
	"warungpos/terminal/internal/domain"
	"warungpos/terminal/internal/notify"
	"warungpos/terminal/internal/ordernum"
	"warungpos/terminal/internal/queue"
	"warungpos/terminal/internal/store"
	"warungpos/terminal/internal/xid"
)

// ErrPartialSync marks a drain pass in which at least one queued entry
// failed to submit. Failed entries stay queued for the next pass.
var ErrPartialSync = errors.New("partial sync")

type Service struct {
	repo       store.Repository
	queue      *queue.Queue
	monitor    *connectivity.Monitor
	allocator  *ordernum.Allocator
	dispatcher notify.Dispatcher
	storeID    string
	now        func() time.Time
}

func New(
	repo store.Repository,
	offlineQueue *queue.Queue,
	monitor *connectivity.Monitor,
	allocator *ordernum.Allocator,
	dispatcher notify.Dispatcher,
	storeID string,
) *Service {
	if storeID == "" {
		storeID = "main-store"
	}

	return &Service{
		repo:       repo,
		queue:      offlineQueue,
		monitor:    monitor,
		allocator:  allocator,
		dispatcher: dispatcher,
		storeID:    storeID,
		now:        time.Now,
	}
}

// WithClock overrides the commit timestamp source. Used in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type FinalizeResult struct {
	Committed   bool   `json:"committed"`
	Queued      bool   `json:"queued"`
	OrderNumber string `json:"order_number"`
	SaleID      string `json:"sale_id,omitempty"`
	OfflineID   string `json:"offline_id,omitempty"`
}

// Finalize commits the flow's draft: directly against the system of record
// when the terminal is online, otherwise into the offline durable queue.
// On either success the draft is reset; on failure it is preserved.
func (s *Service) Finalize(ctx context.Context, flow *checkout.Flow) (FinalizeResult, error) {
	draft := flow.Draft()
	if err := checkout.ValidateCommit(draft); err != nil {
		return FinalizeResult{}, err
	}

	var result FinalizeResult
	if s.monitor.Online() {
		sale, err := s.commitOnline(ctx, draft)
		if err != nil {
			// The draft stays intact; an online failure is never silently
			// re-routed into the offline queue.
			return FinalizeResult{}, err
		}
		result = FinalizeResult{Committed: true, OrderNumber: sale.OrderNumber, SaleID: sale.ID}
	} else {
		entry, err := s.queue.Enqueue(ctx, draft)
		if err != nil {
			// Storage failure: the sale is NOT saved.
			return FinalizeResult{}, err
		}
		result = FinalizeResult{Queued: true, OrderNumber: entry.OrderNumber, OfflineID: entry.OfflineID}
		log.Printf("[service] sale queued offline id=%s order=%s pending=%d", entry.OfflineID, entry.OrderNumber, s.queue.Size(ctx))
	}

	if err := flow.Reset(ctx); err != nil {
		log.Printf("[service] WARN: failed to reset draft after commit: %v", err)
	}
	return result, nil
}

// Drain replays the offline queue in insertion order through the same
// online commit path as a live finalize. Each entry gets a fresh online
// order number; the offline placeholder is never reused. Failed entries
// stay queued and the pass continues.
func (s *Service) Drain(ctx context.Context) (domain.DrainReport, error) {
	entries, err := s.queue.List(ctx)
	if err != nil {
		return domain.DrainReport{}, err
	}

	report := domain.DrainReport{Attempted: len(entries)}
	for _, entry := range entries {
		sale, err := s.commitOnline(ctx, entry.Draft)
		if err != nil {
			report.Failed++
			log.Printf("[service] WARN: sync failed for offline entry %s: %v", entry.OfflineID, err)
			continue
		}
		report.Submitted++

		if err := s.queue.Remove(ctx, entry.OfflineID); err != nil {
			// The sale is committed remotely but still queued locally; the
			// next drain will submit it again as a duplicate order. Losing
			// the local record would be worse than duplicating the sale.
			log.Printf("[service] WARN: committed sale %s but failed to remove offline entry %s: %v", sale.ID, entry.OfflineID, err)
		}
	}

	if report.Failed > 0 {
		return report, fmt.Errorf("%w: %d of %d entries failed", ErrPartialSync, report.Failed, report.Attempted)
	}
	return report, nil
}

// commitOnline is the shared commit path used by a live finalize and by
// drain: allocate an online order number, create the sale, then apply
// stock and delivery side effects.
func (s *Service) commitOnline(ctx context.Context, draft domain.SaleDraft) (*domain.Sale, error) {
	orderNumber, err := s.allocator.NextOnline(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate order number: %w", err)
	}

	storeID := draft.StoreID
	if storeID == "" {
		storeID = s.storeID
	}
	saleDate := draft.SaleDate
	if saleDate.IsZero() {
		saleDate = s.now().UTC()
	}

	sale := domain.Sale{
		ID:            xid.New("sale"),
		OrderNumber:   orderNumber,
		StoreID:       storeID,
		CustomerID:    draft.CustomerID,
		Items:         draft.Items,
		SaleDate:      saleDate,
		DeliveryTerm:  draft.DeliveryTerm,
		SubtotalCents: draft.SubtotalCents(),
		DiscountCents: draft.DiscountCents,
		TotalCents:    draft.TotalCents(),
		Payments:      draft.Payments,
		Deferred:      draft.Deferred,
		Notes:         draft.Notes,
		CreatedAt:     s.now().UTC(),
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	s.adjustStock(ctx, created)
	customer := s.lookupCustomer(ctx, created.CustomerID)
	s.createDelivery(ctx, created, customer)
	s.dispatchNotification(ctx, created, customer)

	log.Printf("[service] sale committed id=%s order=%s total=%d", created.ID, created.OrderNumber, created.TotalCents)
	return created, nil
}

// adjustStock performs the documented read-then-write decrement for every
// line item. Concurrent commits against the same product can race; that is
// an accepted property of the shared stock counter, not prevented here.
func (s *Service) adjustStock(ctx context.Context, sale *domain.Sale) {
	skus := make([]string, 0, len(sale.Items))
	for _, item := range sale.Items {
		skus = append(skus, item.SKU)
	}

	stockMap, err := s.repo.GetStockMap(ctx, sale.StoreID, skus)
	if err != nil {
		log.Printf("[service] WARN: stock read failed for sale %s: %v", sale.ID, err)
		return
	}

	for _, item := range sale.Items {
		current := stockMap[item.SKU]
		if err := s.repo.SetStock(ctx, sale.StoreID, item.SKU, current-item.Qty); err != nil {
			log.Printf("[service] WARN: stock write failed sku=%s sale=%s: %v", item.SKU, sale.ID, err)
		}
	}
}

func (s *Service) lookupCustomer(ctx context.Context, customerID string) *domain.Customer {
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		log.Printf("[service] WARN: customer lookup failed id=%s: %v", customerID, err)
		return nil
	}
	return customer
}

// createDelivery records one pending delivery when the term is anything
// other than pickup, due at commit date plus the term's lead time.
func (s *Service) createDelivery(ctx context.Context, sale *domain.Sale, customer *domain.Customer) {
	if sale.DeliveryTerm == domain.DeliveryTermPickup {
		return
	}

	address := "address pending confirmation"
	if customer != nil {
		address = customer.FormattedAddress()
	}

	leadDays := domain.DeliveryLeadDays(sale.DeliveryTerm)
	delivery := domain.Delivery{
		ID:          xid.New("dlv"),
		SaleID:      sale.ID,
		OrderNumber: sale.OrderNumber,
		Term:        sale.DeliveryTerm,
		Status:      domain.DeliveryStatusPending,
		DueDate:     s.now().UTC().AddDate(0, 0, leadDays),
		Address:     address,
		CreatedAt:   s.now().UTC(),
	}

	if _, err := s.repo.CreateDelivery(ctx, delivery); err != nil {
		log.Printf("[service] WARN: delivery create failed sale=%s: %v", sale.ID, err)
	}
}

// dispatchNotification fires the external notifier from a detached task.
// Failures are logged and swallowed; there is no retry and no cancellation
// tied to the commit call.
func (s *Service) dispatchNotification(ctx context.Context, sale *domain.Sale, customer *domain.Customer) {
	if customer == nil {
		log.Printf("[service] skipping notification for sale %s: no customer record", sale.ID)
		return
	}

	msg := domain.Notification{
		Phone:        customer.Phone,
		Name:         customer.Name,
		OrderNumber:  sale.OrderNumber,
		DeliveryTerm: sale.DeliveryTerm,
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.dispatcher.Send(sendCtx, msg); err != nil {
			log.Printf("[service] WARN: notification failed order=%s: %v", sale.OrderNumber, err)
		}
	}()
}

// PendingCount reports the offline queue size, for the connectivity banner.
func (s *Service) PendingCount(ctx context.Context) int {
	return s.queue.Size(ctx)
}
