package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// containerCountFor derives a bottle count from an order quantity: the
// quantity itself when integral, otherwise the next whole number up.
func containerCountFor(quantity decimal.Decimal) int {
	if quantity.IsInteger() {
		return int(quantity.IntPart())
	}
	return int(quantity.Ceil().IntPart())
}

// resolveContainerCount returns how many reusable containers an order
// consumes. An explicit count always wins (even without the use-container
// flag); otherwise the count is derived from the quantity when a container
// was requested. A negative explicit count fails with ErrInvalidQuantity.
func resolveContainerCount(explicit *int, useContainer bool, quantity decimal.Decimal) (int, error) {
	if explicit != nil {
		if *explicit < 0 {
			return 0, fmt.Errorf("bottles_used cannot be negative: %w", ErrInvalidQuantity)
		}
		return *explicit, nil
	}
	if useContainer {
		return containerCountFor(quantity), nil
	}
	return 0, nil
}

// findContainerProduct locates the product row that tracks empty-bottle
// stock for an order. With a source mapping the bottle is assumed to be
// named after the factor's unit size ("Empty 5L bottle"); otherwise any
// product with "Empty" in its name is used. This name-pattern join is kept
// for compatibility with existing catalogs; an explicit container reference
// on the mapping would replace it.
//
// Returns ok=false when no container product exists — consumption is then
// skipped silently, matching the tolerant behavior of manual stock counts.
func findContainerProduct(ctx context.Context, q pgxQuerier, mapping *ProductSource) (int, bool, error) {
	if mapping != nil {
		name := fmt.Sprintf("Empty %dL bottle", mapping.Factor.IntPart())
		var id int
		err := q.QueryRow(ctx, "SELECT id FROM products WHERE name = $1 ORDER BY id LIMIT 1", name).Scan(&id)
		if err == nil {
			return id, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, false, fmt.Errorf("failed to look up container product %q: %w", name, err)
		}
	}

	var id int
	err := q.QueryRow(ctx, "SELECT id FROM products WHERE name LIKE '%Empty%' ORDER BY id LIMIT 1").Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up container product: %w", err)
	}
	return id, true, nil
}
