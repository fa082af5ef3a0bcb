package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// single-row query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx (for Query).
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// resolveStockPool decides which stock pool an order draws from. A non-nil
// mapping means the product's bulk source (consuming quantity × factor);
// nil means the product's direct inventory row. The choice is made once per
// order and never re-evaluated mid-transaction.
func resolveStockPool(ctx context.Context, q pgxQuerier, productID int) (*ProductSource, error) {
	var m ProductSource
	err := q.QueryRow(ctx,
		"SELECT product_id, source_id, factor FROM product_sources WHERE product_id = $1",
		productID,
	).Scan(&m.ProductID, &m.SourceID, &m.Factor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve stock pool for product %d: %w", productID, err)
	}
	return &m, nil
}
