// Package postgres is the system-of-record implementation backed by the
// central PostgreSQL database.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"warungpos/terminal/internal/domain"
	"warungpos/terminal/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LatestOrderNumber reads the highest numeric order number from the most
// recent sales. Offline placeholders never reach this table, so the cast
// is safe on the filtered rows.
func (s *Store) LatestOrderNumber(ctx context.Context, storeID string) (int64, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(order_number::bigint)
		FROM sales
		WHERE store_id = $1 AND order_number ~ '^[0-9]+$'
	`, storeID).Scan(&last)
	if err != nil {
		return 0, err
	}
	if !last.Valid {
		return 0, nil
	}
	return last.Int64, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == "" || sale.OrderNumber == "" || len(sale.Items) == 0 {
		return nil, store.ErrInvalidSale
	}

	pgTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	paymentsJSON, err := json.Marshal(sale.Payments)
	if err != nil {
		return nil, err
	}
	deferredJSON, err := json.Marshal(sale.Deferred)
	if err != nil {
		return nil, err
	}

	_, err = pgTx.ExecContext(ctx, `
		INSERT INTO sales (
			id, order_number, store_id, customer_id, sale_date, delivery_term,
			subtotal_cents, discount_cents, total_cents, payments, deferred_payment,
			notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		sale.ID, sale.OrderNumber, sale.StoreID, sale.CustomerID, sale.SaleDate,
		sale.DeliveryTerm, sale.SubtotalCents, sale.DiscountCents, sale.TotalCents,
		paymentsJSON, deferredJSON, sale.Notes, sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, item := range sale.Items {
		_, err = pgTx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, sku, name, qty, unit_price_cents, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, sale.ID, item.SKU, item.Name, item.Qty, item.UnitPriceCents, item.SubtotalCents)
		if err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *Store) GetStockMap(ctx context.Context, storeID string, skus []string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, qty
		FROM inventory_stocks
		WHERE store_id = $1 AND sku = ANY($2)
	`, storeID, skus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stockMap := make(map[string]int, len(skus))
	for _, sku := range skus {
		stockMap[sku] = 0
	}
	for rows.Next() {
		var sku string
		var qty int
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, err
		}
		stockMap[sku] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stockMap, nil
}

func (s *Store) SetStock(ctx context.Context, storeID string, sku string, qty int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_stocks (store_id, sku, qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_id, sku) DO UPDATE SET qty = EXCLUDED.qty
	`, storeID, sku, qty)
	return err
}

// DecrementStock is the single-statement alternative to the documented
// read-then-write pair. Kept behind the same port; the default commit path
// does not call it.
func (s *Store) DecrementStock(ctx context.Context, storeID string, sku string, qty int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE inventory_stocks
		SET qty = qty - $3
		WHERE store_id = $1 AND sku = $2
	`, storeID, sku, qty)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateDelivery(ctx context.Context, delivery domain.Delivery) (*domain.Delivery, error) {
	if delivery.ID == "" || delivery.SaleID == "" {
		return nil, store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, sale_id, order_number, term, status, due_date, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		delivery.ID, delivery.SaleID, delivery.OrderNumber, delivery.Term,
		delivery.Status, delivery.DueDate, delivery.Address, delivery.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, name, price_cents, active
		FROM products
		WHERE active = true
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.PriceCents, &p.Active); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT sku, name, price_cents, active
		FROM products
		WHERE sku = $1
	`, sku).Scan(&p.SKU, &p.Name, &p.PriceCents, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var c domain.Customer
	var street, city, zip sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, street, city, zip
		FROM customers
		WHERE id = $1
	`, customerID).Scan(&c.ID, &c.Name, &c.Phone, &street, &city, &zip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Street = street.String
	c.City = city.String
	c.Zip = zip.String
	return &c, nil
}
