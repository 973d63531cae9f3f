package domain

import "time"

type Product struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Active     bool   `json:"active"`
}

type Customer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// FormattedAddress renders the on-file address for a delivery record, or a
// placeholder when the customer has no address.
func (c Customer) FormattedAddress() string {
	if c.Street == "" && c.City == "" {
		return "address pending confirmation"
	}
	addr := c.Street
	if c.City != "" {
		if addr != "" {
			addr += ", "
		}
		addr += c.City
	}
	if c.Zip != "" {
		addr += " " + c.Zip
	}
	return addr
}

type LineItem struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type Payment struct {
	Method       string `json:"method"`
	AmountCents  int64  `json:"amount_cents"`
	Installments int    `json:"installments"`
}

// DeferredPayment is a collect-on-delivery amount. It is informational only
// and never reduces the remaining balance.
type DeferredPayment struct {
	Active      bool   `json:"active"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
}

type SaleDraft struct {
	Step          int             `json:"step"`
	CustomerID    string          `json:"customer_id"`
	Items         []LineItem      `json:"items"`
	SaleDate      time.Time       `json:"sale_date"`
	StoreID       string          `json:"store_id"`
	DeliveryTerm  string          `json:"delivery_term"`
	DiscountCents int64           `json:"discount_cents"`
	Payments      []Payment       `json:"payments"`
	Deferred      DeferredPayment `json:"deferred_payment"`
	Notes         string          `json:"notes"`
}

func (d SaleDraft) SubtotalCents() int64 {
	var sum int64
	for _, item := range d.Items {
		sum += item.SubtotalCents
	}
	return sum
}

func (d SaleDraft) TotalCents() int64 {
	total := d.SubtotalCents() - d.DiscountCents
	if total < 0 {
		return 0
	}
	return total
}

func (d SaleDraft) PaidCents() int64 {
	var sum int64
	for _, p := range d.Payments {
		sum += p.AmountCents
	}
	return sum
}

func (d SaleDraft) RemainingCents() int64 {
	remaining := d.TotalCents() - d.PaidCents()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OfflineQueueEntry is an immutable snapshot of a draft awaiting submission.
// Entries are only ever appended or removed whole, never updated in place.
type OfflineQueueEntry struct {
	OfflineID string `json:"offline_id"`
	// OrderNumber is the temporary offline placeholder shown on the
	// receipt. It is replaced by a fresh online allocation during sync.
	OrderNumber string    `json:"order_number"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	Draft       SaleDraft `json:"draft"`
}

type Sale struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	StoreID       string          `json:"store_id"`
	CustomerID    string          `json:"customer_id"`
	Items         []LineItem      `json:"items"`
	SaleDate      time.Time       `json:"sale_date"`
	DeliveryTerm  string          `json:"delivery_term"`
	SubtotalCents int64           `json:"subtotal_cents"`
	DiscountCents int64           `json:"discount_cents"`
	TotalCents    int64           `json:"total_cents"`
	Payments      []Payment       `json:"payments"`
	Deferred      DeferredPayment `json:"deferred_payment"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Delivery struct {
	ID          string    `json:"id"`
	SaleID      string    `json:"sale_id"`
	OrderNumber string    `json:"order_number"`
	Term        string    `json:"term"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type Notification struct {
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	OrderNumber  string `json:"order_number"`
	DeliveryTerm string `json:"delivery_term"`
}

// DrainReport summarizes one pass over the offline queue.
type DrainReport struct {
	Attempted int `json:"attempted"`
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
}

const (
	StepProductSelection    = 1
	StepCustomerAndDelivery = 2
	StepPayment             = 3
)

const (
	DeliveryTermPickup = "pickup"
	DeliveryTerm15Days = "15_days"
	DeliveryTerm45Days = "45_days"
)

const DeliveryStatusPending = "pending"

// DeliveryLeadDays returns the fulfillment lead time for a term, or 0 for
// pickup and unknown terms.
func DeliveryLeadDays(term string) int {
	switch term {
	case DeliveryTerm15Days:
		return 15
	case DeliveryTerm45Days:
		return 45
	default:
		return 0
	}
}

func IsDeliveryTerm(term string) bool {
	switch term {
	case DeliveryTermPickup, DeliveryTerm15Days, DeliveryTerm45Days:
		return true
	}
	return false
}
