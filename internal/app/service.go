package app

import (
	"context"

	"refillpos/internal/core"
)

// ApplicationService is the single interface all UI adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Login resolves a username to an account, enforcing the password only
	// for password-protected accounts. Unknown operators are auto-created.
	Login(ctx context.Context, username, password string) (*core.User, error)

	// GuestLogin creates a throwaway passwordless account.
	GuestLogin(ctx context.Context) (*core.User, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)

	// ListProducts returns the full catalog.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns one catalog product.
	GetProduct(ctx context.Context, productID int) (*core.Product, error)

	// CreateProduct adds a catalog product and its initial price-history row.
	CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error)

	// UpdateProduct patches a product's name and/or price. A price change
	// appends a price-history row.
	UpdateProduct(ctx context.Context, productID int, req ProductPatch) (*core.Product, error)

	// DeleteProduct removes a product; recorded sales keep their snapshots.
	DeleteProduct(ctx context.Context, productID int) error

	// GetPriceHistory returns a product's price changes, newest first.
	GetPriceHistory(ctx context.Context, productID int) (*PriceHistoryResult, error)

	// RecordOrder records one sale atomically: price snapshot, stock
	// decrement, container consumption, movement rows and the sale row.
	RecordOrder(ctx context.Context, req RecordOrderRequest) (*core.Order, error)

	// ListOrders returns sales newest-first, optionally filtered to one UTC
	// date (YYYY-MM-DD) and/or one creating user.
	ListOrders(ctx context.Context, date string, userID *int) (*OrderListResult, error)

	// GetOrder returns one recorded sale.
	GetOrder(ctx context.Context, orderID int) (*core.Order, error)

	// ListSources returns all bulk sources.
	ListSources(ctx context.Context) (*SourceListResult, error)

	// AddSource creates a bulk source; unit defaults to litres.
	AddSource(ctx context.Context, req SourceRequest) (*core.Source, error)

	// UpdateSource patches a source's name, unit and/or quantity.
	UpdateSource(ctx context.Context, sourceID int, req SourcePatch) (*core.Source, error)

	// DeleteSource removes a source and its product mappings.
	DeleteSource(ctx context.Context, sourceID int) error

	// AdjustSource applies a signed delta to a source quantity and records
	// a movement. Fails if the result would be negative.
	AdjustSource(ctx context.Context, sourceID int, req AdjustRequest) (*AdjustResult, error)

	// ListInventory returns all direct inventory records with product names.
	ListInventory(ctx context.Context) (*InventoryListResult, error)

	// SetInventory creates or overwrites a product's inventory record.
	SetInventory(ctx context.Context, productID int, req InventoryRequest) (*core.InventoryRecord, error)

	// DeleteInventory removes a product's inventory record.
	DeleteInventory(ctx context.Context, productID int) error

	// AdjustInventory applies a signed delta to a product's inventory and
	// records a movement. Fails if the result would be negative.
	AdjustInventory(ctx context.Context, productID int, req AdjustRequest) (*AdjustResult, error)

	// ListProductSources returns all product→source mappings with names.
	ListProductSources(ctx context.Context) (*MappingListResult, error)

	// SetProductSource creates or replaces the single mapping for a product.
	SetProductSource(ctx context.Context, req MappingRequest) (*core.ProductSource, error)

	// DeleteProductSource unmaps a product, reverting it to direct inventory.
	DeleteProductSource(ctx context.Context, productID int) error

	// ListMovements returns recent audit rows, newest first.
	ListMovements(ctx context.Context, limit int, kind string, refID *int) (*MovementListResult, error)

	// DailySummary totals quantity and money sold on one UTC date.
	DailySummary(ctx context.Context, date string) (*core.DailySummary, error)

	// ExportArchive builds a ZIP of CSV table exports for offline backup.
	ExportArchive(ctx context.Context) ([]byte, error)

	// DatabaseSnapshot dumps the operational tables as one JSON-friendly
	// structure, for the debug endpoint and the dump tool.
	DatabaseSnapshot(ctx context.Context) (map[string]any, error)

	// RecentAPILogs returns the newest audit rows from api_logs.
	RecentAPILogs(ctx context.Context, limit int) ([]map[string]string, error)
}
