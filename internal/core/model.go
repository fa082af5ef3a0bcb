package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Water products draw from a bulk source
// via a ProductSource mapping; countable items (empty bottles) track their
// stock directly in an InventoryRecord.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// Source is a bulk consumable pool (a refill tank) shared across products.
type Source struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	LastUpdated time.Time       `json:"last_updated"`
}

// ProductSource maps a product to the bulk source it draws from.
// Factor is how many source units one sold product unit consumes
// (litres per bottle). At most one mapping exists per product.
type ProductSource struct {
	ProductID int             `json:"product_id"`
	SourceID  int             `json:"source_id"`
	Factor    decimal.Decimal `json:"factor"`
	// Joined names, populated by list queries only.
	ProductName string `json:"product_name,omitempty"`
	SourceName  string `json:"source_name,omitempty"`
}

// InventoryRecord is the direct per-product stock count, used when a product
// has no source mapping and for countable stock like reusable bottles.
type InventoryRecord struct {
	ID          int             `json:"id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"` // joined, list queries only
	Quantity    decimal.Decimal `json:"quantity"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Movement kinds. A movement's RefID is a source id for MovementSource and a
// product id for MovementInventory.
const (
	MovementSource    = "source"
	MovementInventory = "inventory"
)

// Movement is one immutable audit row for a stock adjustment.
// Rows are append-only; nothing in the system mutates or deletes them.
type Movement struct {
	ID        int             `json:"id"`
	Kind      string          `json:"kind"`
	RefID     int             `json:"ref_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    *int            `json:"user_id,omitempty"`
}

// PriceChange is one append-only price history row for a product.
// OldPrice is nil for the initial price set at product creation.
type PriceChange struct {
	ID        int              `json:"id"`
	ProductID int              `json:"product_id"`
	OldPrice  *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice  decimal.Decimal  `json:"new_price"`
	ChangedBy *int             `json:"changed_by,omitempty"`
	Reason    string           `json:"reason"`
	Timestamp time.Time        `json:"timestamp"`
}

// DailySummary aggregates quantity and money sold on one UTC date.
type DailySummary struct {
	Date          string          `json:"date"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalMoney    decimal.Decimal `json:"total_money"`
}
