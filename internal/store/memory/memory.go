// Package memory is the in-memory system-of-record implementation used in
// dev mode and tests.
package memory

import (
	"context"
	"strconv"
	"sync"

	"warungpos/terminal/internal/domain"
	"warungpos/terminal/internal/store"
)

type Store struct {
	mu              sync.RWMutex
	products        map[string]domain.Product
	customers       map[string]domain.Customer
	stock           map[string]map[string]int
	salesByID       map[string]domain.Sale
	saleOrder       []string
	deliveriesByID  map[string]domain.Delivery
	lastOrderNumber int64
}

func New() *Store {
	return &Store{
		products:       map[string]domain.Product{},
		customers:      map[string]domain.Customer{},
		stock:          map[string]map[string]int{},
		salesByID:      map[string]domain.Sale{},
		deliveriesByID: map[string]domain.Delivery{},
	}
}

// NewSeeded builds a store pre-loaded with demo products, customers and
// stock so the terminal is usable without a database.
func NewSeeded() *Store {
	s := New()
	s.products = map[string]domain.Product{
		"SKU-MIE-01": {SKU: "SKU-MIE-01", Name: "Mie Instan Goreng", PriceCents: 350000, Active: true},
		"SKU-KOP-01": {SKU: "SKU-KOP-01", Name: "Kopi Bubuk 200g", PriceCents: 1850000, Active: true},
		"SKU-GUL-01": {SKU: "SKU-GUL-01", Name: "Gula Pasir 1kg", PriceCents: 1450000, Active: true},
		"SKU-LEMARI": {SKU: "SKU-LEMARI", Name: "Lemari Pakaian 2 Pintu", PriceCents: 185000000, Active: true},
		"SKU-KASUR":  {SKU: "SKU-KASUR", Name: "Kasur Busa Queen", PriceCents: 97500000, Active: true},
	}
	s.customers = map[string]domain.Customer{
		"cust-1": {ID: "cust-1", Name: "Budi Santoso", Phone: "+6281234567890", Street: "Jl. Melati No. 12", City: "Bandung", Zip: "40115"},
		"cust-2": {ID: "cust-2", Name: "Siti Rahma", Phone: "+6285711112222"},
	}
	s.stock = map[string]map[string]int{
		"main-store": {
			"SKU-MIE-01": 120,
			"SKU-KOP-01": 40,
			"SKU-GUL-01": 60,
			"SKU-LEMARI": 8,
			"SKU-KASUR":  5,
		},
	}
	s.lastOrderNumber = 41
	return s
}

func (s *Store) LatestOrderNumber(_ context.Context, _ string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastOrderNumber, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == "" || sale.OrderNumber == "" || len(sale.Items) == 0 {
		return nil, store.ErrInvalidSale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := sale
	copied.Items = append([]domain.LineItem(nil), sale.Items...)
	copied.Payments = append([]domain.Payment(nil), sale.Payments...)
	s.salesByID[copied.ID] = copied
	s.saleOrder = append(s.saleOrder, copied.ID)

	if n, err := strconv.ParseInt(sale.OrderNumber, 10, 64); err == nil && n > s.lastOrderNumber {
		s.lastOrderNumber = n
	}
	return &copied, nil
}

func (s *Store) GetStockMap(_ context.Context, storeID string, skus []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]int, len(skus))
	byStore := s.stock[storeID]
	for _, sku := range skus {
		result[sku] = byStore[sku]
	}
	return result, nil
}

func (s *Store) SetStock(_ context.Context, storeID string, sku string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stock[storeID] == nil {
		s.stock[storeID] = map[string]int{}
	}
	s.stock[storeID][sku] = qty
	return nil
}

func (s *Store) DecrementStock(_ context.Context, storeID string, sku string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stock[storeID] == nil {
		s.stock[storeID] = map[string]int{}
	}
	s.stock[storeID][sku] -= qty
	return nil
}

func (s *Store) CreateDelivery(_ context.Context, delivery domain.Delivery) (*domain.Delivery, error) {
	if delivery.ID == "" || delivery.SaleID == "" {
		return nil, store.ErrInvalidSale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deliveriesByID[delivery.ID] = delivery
	return &delivery, nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *Store) GetProductBySKU(_ context.Context, sku string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[sku]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetCustomer(_ context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[customerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

// ListSales returns committed sales in creation order. Used by tests.
func (s *Store) ListSales() []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.Sale, 0, len(s.saleOrder))
	for _, id := range s.saleOrder {
		sales = append(sales, s.salesByID[id])
	}
	return sales
}

// ListDeliveries returns created deliveries. Used by tests.
func (s *Store) ListDeliveries() []domain.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deliveries := make([]domain.Delivery, 0, len(s.deliveriesByID))
	for _, d := range s.deliveriesByID {
		deliveries = append(deliveries, d)
	}
	return deliveries
}
