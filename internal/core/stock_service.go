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

// StockService is the stock ledger: bulk sources (tanks), direct per-product
// inventory, and the product→source mappings that tie them together.
//
// The Adjust operations apply a signed delta with a non-negative guard:
// a missing record counts as zero and is auto-created only when the net
// result is non-negative; a result below zero fails with ErrInsufficientStock
// and leaves the stored quantity untouched. Every committed adjustment
// appends a movement row in the same transaction.
type StockService interface {
	// Sources (bulk tanks)
	ListSources(ctx context.Context) ([]Source, error)
	GetSource(ctx context.Context, sourceID int) (*Source, error)
	AddSource(ctx context.Context, name, unit string, quantity decimal.Decimal) (*Source, error)
	UpdateSource(ctx context.Context, sourceID int, name, unit *string, quantity *decimal.Decimal) (*Source, error)
	DeleteSource(ctx context.Context, sourceID int) error
	AdjustSource(ctx context.Context, sourceID int, delta decimal.Decimal, reason string, userID *int) (decimal.Decimal, error)

	// Direct inventory
	ListInventory(ctx context.Context) ([]InventoryRecord, error)
	GetInventory(ctx context.Context, productID int) (*InventoryRecord, error)
	SetInventory(ctx context.Context, productID int, quantity decimal.Decimal) (*InventoryRecord, error)
	DeleteInventory(ctx context.Context, productID int) error
	AdjustInventory(ctx context.Context, productID int, delta decimal.Decimal, reason string, userID *int) (decimal.Decimal, error)

	// Product → source mappings
	ListProductSources(ctx context.Context) ([]ProductSource, error)
	GetProductSource(ctx context.Context, productID int) (*ProductSource, error)
	SetProductSource(ctx context.Context, productID, sourceID int, factor decimal.Decimal) (*ProductSource, error)
	DeleteProductSource(ctx context.Context, productID int) error
}

type stockService struct {
	pool *pgxpool.Pool
}

func NewStockService(pool *pgxpool.Pool) StockService {
	return &stockService{pool: pool}
}

// ── Sources ──────────────────────────────────────────────────────────────────

func (s *stockService) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, unit, quantity, last_updated FROM sources ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Name, &src.Unit, &src.Quantity, &src.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (s *stockService) GetSource(ctx context.Context, sourceID int) (*Source, error) {
	var src Source
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, unit, quantity, last_updated FROM sources WHERE id = $1",
		sourceID,
	).Scan(&src.ID, &src.Name, &src.Unit, &src.Quantity, &src.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("source %d not found", sourceID)
		}
		return nil, fmt.Errorf("failed to fetch source %d: %w", sourceID, err)
	}
	return &src, nil
}

func (s *stockService) AddSource(ctx context.Context, name, unit string, quantity decimal.Decimal) (*Source, error) {
	if unit == "" {
		unit = "L"
	}

	var src Source
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sources (name, unit, quantity, last_updated)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, unit, quantity, last_updated
	`, name, unit, quantity, time.Now().UTC()).Scan(
		&src.ID, &src.Name, &src.Unit, &src.Quantity, &src.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	return &src, nil
}

func (s *stockService) UpdateSource(ctx context.Context, sourceID int, name, unit *string, quantity *decimal.Decimal) (*Source, error) {
	var src Source
	err := s.pool.QueryRow(ctx, `
		UPDATE sources
		SET name = COALESCE($1, name),
		    unit = COALESCE($2, unit),
		    quantity = COALESCE($3, quantity),
		    last_updated = $4
		WHERE id = $5
		RETURNING id, name, unit, quantity, last_updated
	`, name, unit, quantity, time.Now().UTC(), sourceID).Scan(
		&src.ID, &src.Name, &src.Unit, &src.Quantity, &src.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("source %d not found", sourceID)
		}
		return nil, fmt.Errorf("failed to update source %d: %w", sourceID, err)
	}
	return &src, nil
}

func (s *stockService) DeleteSource(ctx context.Context, sourceID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sources WHERE id = $1", sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete source %d: %w", sourceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("source %d not found", sourceID)
	}
	return nil
}

// AdjustSource applies delta to a source quantity in its own transaction and
// records a `source` movement for the change.
func (s *stockService) AdjustSource(ctx context.Context, sourceID int, delta decimal.Decimal, reason string, userID *int) (decimal.Decimal, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	newQty, err := adjustSourceTx(ctx, tx, sourceID, delta)
	if err != nil {
		return decimal.Zero, err
	}
	if err := recordMovementTx(ctx, tx, MovementSource, sourceID, delta, reason, userID); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit source adjustment: %w", err)
	}
	return newQty, nil
}

// adjustSourceTx applies delta to a source row within the caller's TX,
// locking the row for the read-check-write window. A missing row counts as
// zero and is created in place (with a placeholder name) when the net result
// is non-negative.
func adjustSourceTx(ctx context.Context, tx pgx.Tx, sourceID int, delta decimal.Decimal) (decimal.Decimal, error) {
	var current decimal.Decimal
	err := tx.QueryRow(ctx,
		"SELECT quantity FROM sources WHERE id = $1 FOR UPDATE",
		sourceID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		if delta.IsNegative() {
			return decimal.Zero, fmt.Errorf("source %d has no stock: %w", sourceID, ErrInsufficientStock)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO sources (id, name, unit, quantity, last_updated)
			VALUES ($1, 'source', 'L', $2, $3)
		`, sourceID, delta, time.Now().UTC())
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to create source %d: %w", sourceID, err)
		}
		return delta, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock source %d: %w", sourceID, err)
	}

	newQty := current.Add(delta)
	if newQty.IsNegative() {
		return decimal.Zero, fmt.Errorf("source %d has %s, adjustment of %s would go negative: %w",
			sourceID, current.String(), delta.String(), ErrInsufficientStock)
	}

	_, err = tx.Exec(ctx,
		"UPDATE sources SET quantity = $1, last_updated = $2 WHERE id = $3",
		newQty, time.Now().UTC(), sourceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update source %d: %w", sourceID, err)
	}
	return newQty, nil
}

// ── Direct inventory ─────────────────────────────────────────────────────────

func (s *stockService) ListInventory(ctx context.Context) ([]InventoryRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.product_id, p.name, i.quantity, i.last_updated
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		ORDER BY p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var records []InventoryRecord
	for rows.Next() {
		var rec InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.ProductName, &rec.Quantity, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *stockService) GetInventory(ctx context.Context, productID int) (*InventoryRecord, error) {
	var rec InventoryRecord
	err := s.pool.QueryRow(ctx,
		"SELECT id, product_id, quantity, last_updated FROM inventory WHERE product_id = $1",
		productID,
	).Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no inventory record for product %d", productID)
		}
		return nil, fmt.Errorf("failed to fetch inventory for product %d: %w", productID, err)
	}
	return &rec, nil
}

// SetInventory creates or overwrites the inventory record for a product.
func (s *stockService) SetInventory(ctx context.Context, productID int, quantity decimal.Decimal) (*InventoryRecord, error) {
	var rec InventoryRecord
	err := s.pool.QueryRow(ctx, `
		INSERT INTO inventory (product_id, quantity, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		  SET quantity = EXCLUDED.quantity, last_updated = EXCLUDED.last_updated
		RETURNING id, product_id, quantity, last_updated
	`, productID, quantity, time.Now().UTC()).Scan(
		&rec.ID, &rec.ProductID, &rec.Quantity, &rec.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set inventory for product %d: %w", productID, err)
	}
	return &rec, nil
}

func (s *stockService) DeleteInventory(ctx context.Context, productID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM inventory WHERE product_id = $1", productID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no inventory record for product %d", productID)
	}
	return nil
}

// AdjustInventory applies delta to a product's direct inventory in its own
// transaction and records an `inventory` movement for the change.
func (s *stockService) AdjustInventory(ctx context.Context, productID int, delta decimal.Decimal, reason string, userID *int) (decimal.Decimal, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	newQty, err := adjustInventoryTx(ctx, tx, productID, delta)
	if err != nil {
		return decimal.Zero, err
	}
	if err := recordMovementTx(ctx, tx, MovementInventory, productID, delta, reason, userID); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit inventory adjustment: %w", err)
	}
	return newQty, nil
}

// adjustInventoryTx applies delta to a product's inventory row within the
// caller's TX, locking the row for the read-check-write window. A missing
// row counts as zero and is created when the net result is non-negative.
func adjustInventoryTx(ctx context.Context, tx pgx.Tx, productID int, delta decimal.Decimal) (decimal.Decimal, error) {
	var current decimal.Decimal
	err := tx.QueryRow(ctx,
		"SELECT quantity FROM inventory WHERE product_id = $1 FOR UPDATE",
		productID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		if delta.IsNegative() {
			return decimal.Zero, fmt.Errorf("product %d has no inventory: %w", productID, ErrInsufficientStock)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO inventory (product_id, quantity, last_updated)
			VALUES ($1, $2, $3)
		`, productID, delta, time.Now().UTC())
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to create inventory for product %d: %w", productID, err)
		}
		return delta, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock inventory for product %d: %w", productID, err)
	}

	newQty := current.Add(delta)
	if newQty.IsNegative() {
		return decimal.Zero, fmt.Errorf("product %d has %s in stock, adjustment of %s would go negative: %w",
			productID, current.String(), delta.String(), ErrInsufficientStock)
	}

	_, err = tx.Exec(ctx,
		"UPDATE inventory SET quantity = $1, last_updated = $2 WHERE product_id = $3",
		newQty, time.Now().UTC(), productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update inventory for product %d: %w", productID, err)
	}
	return newQty, nil
}

// ── Product → source mappings ────────────────────────────────────────────────

func (s *stockService) ListProductSources(ctx context.Context) ([]ProductSource, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ps.product_id, ps.source_id, ps.factor, p.name, src.name
		FROM product_sources ps
		JOIN products p ON p.id = ps.product_id
		JOIN sources src ON src.id = ps.source_id
		ORDER BY p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query product sources: %w", err)
	}
	defer rows.Close()

	var mappings []ProductSource
	for rows.Next() {
		var m ProductSource
		if err := rows.Scan(&m.ProductID, &m.SourceID, &m.Factor, &m.ProductName, &m.SourceName); err != nil {
			return nil, fmt.Errorf("failed to scan product source: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

func (s *stockService) GetProductSource(ctx context.Context, productID int) (*ProductSource, error) {
	return resolveStockPool(ctx, s.pool, productID)
}

// SetProductSource creates or replaces the single mapping for a product.
func (s *stockService) SetProductSource(ctx context.Context, productID, sourceID int, factor decimal.Decimal) (*ProductSource, error) {
	var m ProductSource
	err := s.pool.QueryRow(ctx, `
		INSERT INTO product_sources (product_id, source_id, factor)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		  SET source_id = EXCLUDED.source_id, factor = EXCLUDED.factor
		RETURNING product_id, source_id, factor
	`, productID, sourceID, factor).Scan(&m.ProductID, &m.SourceID, &m.Factor)
	if err != nil {
		return nil, fmt.Errorf("failed to set source mapping for product %d: %w", productID, err)
	}
	return &m, nil
}

func (s *stockService) DeleteProductSource(ctx context.Context, productID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM product_sources WHERE product_id = $1", productID)
	if err != nil {
		return fmt.Errorf("failed to delete source mapping for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no source mapping for product %d", productID)
	}
	return nil
}
