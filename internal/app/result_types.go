package app

import (
	"refillpos/internal/core"

	"github.com/shopspring/decimal"
)

// ProductListResult wraps the product catalog for UI adapters.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// PriceHistoryResult wraps a product's price changes, newest first.
type PriceHistoryResult struct {
	ProductID int                `json:"product_id"`
	Changes   []core.PriceChange `json:"changes"`
}

// OrderListResult wraps recorded sales, newest first.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

// SourceListResult wraps all bulk sources.
type SourceListResult struct {
	Sources []core.Source `json:"sources"`
}

// InventoryListResult wraps all direct inventory records.
type InventoryListResult struct {
	Inventory []core.InventoryRecord `json:"inventory"`
}

// MappingListResult wraps all product→source mappings.
type MappingListResult struct {
	Mappings []core.ProductSource `json:"mappings"`
}

// MovementListResult wraps recent audit rows.
type MovementListResult struct {
	Movements []core.Movement `json:"movements"`
}

// AdjustResult reports the quantity after a stock adjustment.
type AdjustResult struct {
	NewQuantity decimal.Decimal `json:"new_quantity"`
}
