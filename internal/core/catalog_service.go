package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages sellable products and their append-only price
// history. Every price mutation, including the initial one, lands in
// price_history within the same transaction as the catalog change.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID int) (*Product, error)
	CreateProduct(ctx context.Context, name string, unitPrice decimal.Decimal, userID *int) (*Product, error)
	UpdateProduct(ctx context.Context, productID int, name *string, unitPrice *decimal.Decimal, userID *int) (*Product, error)
	DeleteProduct(ctx context.Context, productID int) error
	GetPriceHistory(ctx context.Context, productID int) ([]PriceChange, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, unit_price, created_at FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID int) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, unit_price, created_at FROM products WHERE id = $1",
		productID,
	).Scan(&p.ID, &p.Name, &p.UnitPrice, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}
	return &p, nil
}

// CreateProduct inserts the product and its initial price-history row in one
// transaction.
func (s *catalogService) CreateProduct(ctx context.Context, name string, unitPrice decimal.Decimal, userID *int) (*Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var p Product
	err = tx.QueryRow(ctx, `
		INSERT INTO products (name, unit_price, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, name, unit_price, created_at
	`, name, unitPrice, time.Now().UTC()).Scan(&p.ID, &p.Name, &p.UnitPrice, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO price_history (product_id, old_price, new_price, changed_by, reason, timestamp)
		VALUES ($1, NULL, $2, $3, 'initial', $4)
	`, p.ID, unitPrice, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to record initial price for product %d: %w", p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}
	return &p, nil
}

// UpdateProduct patches name and/or price. A price change appends a
// price-history row carrying the previous price, in the same transaction.
func (s *catalogService) UpdateProduct(ctx context.Context, productID int, name *string, unitPrice *decimal.Decimal, userID *int) (*Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldPrice decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT unit_price FROM products WHERE id = $1 FOR UPDATE",
		productID,
	).Scan(&oldPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	var p Product
	err = tx.QueryRow(ctx, `
		UPDATE products
		SET name = COALESCE($1, name),
		    unit_price = COALESCE($2, unit_price)
		WHERE id = $3
		RETURNING id, name, unit_price, created_at
	`, name, unitPrice, productID).Scan(&p.ID, &p.Name, &p.UnitPrice, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}

	if unitPrice != nil && !unitPrice.Equal(oldPrice) {
		_, err = tx.Exec(ctx, `
			INSERT INTO price_history (product_id, old_price, new_price, changed_by, reason, timestamp)
			VALUES ($1, $2, $3, $4, 'update', $5)
		`, productID, oldPrice, *unitPrice, userID, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("failed to record price change for product %d: %w", productID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return &p, nil
}

// DeleteProduct removes the product. Inventory and source mappings cascade;
// recorded sales and movements survive with a dangling product id so history
// stays intact.
func (s *catalogService) DeleteProduct(ctx context.Context, productID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	return nil
}

func (s *catalogService) GetPriceHistory(ctx context.Context, productID int) ([]PriceChange, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, old_price, new_price, changed_by, reason, timestamp
		FROM price_history
		WHERE product_id = $1
		ORDER BY id DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for product %d: %w", productID, err)
	}
	defer rows.Close()

	var changes []PriceChange
	for rows.Next() {
		var c PriceChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.OldPrice, &c.NewPrice, &c.ChangedBy, &c.Reason, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan price change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, nil
}
