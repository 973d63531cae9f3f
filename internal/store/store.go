// Package store is the port to the system of record for products,
// customers, sales and deliveries. The terminal consumes it only through
// the operations the commit path needs.
package store

import (
	"context"
	"errors"

	"warungpos/terminal/internal/domain"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidSale = errors.New("invalid sale")
	// ErrUnavailable means the system of record could not be reached even
	// though the terminal believes it is online. The draft is preserved and
	// never auto-queued.
	ErrUnavailable = errors.New("system of record unavailable")
)

type Repository interface {
	// LatestOrderNumber returns the highest online order number observed so
	// far, 0 when no sale exists yet.
	LatestOrderNumber(ctx context.Context, storeID string) (int64, error)
	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	GetStockMap(ctx context.Context, storeID string, skus []string) (map[string]int, error)
	SetStock(ctx context.Context, storeID string, sku string, qty int) error
	// DecrementStock is the atomic alternative to the read-then-write pair
	// above. The default commit path does not use it.
	DecrementStock(ctx context.Context, storeID string, sku string, qty int) error
	CreateDelivery(ctx context.Context, delivery domain.Delivery) (*domain.Delivery, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
}
