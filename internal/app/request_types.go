package app

import "github.com/shopspring/decimal"

// ProductRequest is the input for creating a catalog product.
type ProductRequest struct {
	Name      string
	UnitPrice decimal.Decimal
	UserID    *int // acting user, recorded on the price-history row
}

// ProductPatch is a partial product update; nil fields are left unchanged.
type ProductPatch struct {
	Name      *string
	UnitPrice *decimal.Decimal
	UserID    *int
}

// RecordOrderRequest is the input for recording one sale.
type RecordOrderRequest struct {
	ProductID     int
	Quantity      decimal.Decimal
	PaymentMethod string // defaults to "Cash"
	// OrderDate is an optional backdate, a datetime or bare YYYY-MM-DD.
	OrderDate string
	// ClientTimestamp is the optional device timestamp; when it parses it
	// takes priority over OrderDate.
	ClientTimestamp string
	CreatedBy       *int
	UseContainer    bool
	// ContainerCount, when non-nil, overrides the count derived from quantity.
	ContainerCount *int
	// ContainerPrice is the per-bottle surcharge charged when UseContainer is set.
	ContainerPrice decimal.Decimal
}

// SourceRequest is the input for creating a bulk source.
type SourceRequest struct {
	Name     string
	Unit     string // defaults to "L"
	Quantity decimal.Decimal
}

// SourcePatch is a partial source update; nil fields are left unchanged.
type SourcePatch struct {
	Name     *string
	Unit     *string
	Quantity *decimal.Decimal
}

// AdjustRequest is a signed quantity delta with an audit reason.
type AdjustRequest struct {
	Delta  decimal.Decimal
	Reason string
	UserID *int
}

// InventoryRequest sets a product's direct inventory level.
type InventoryRequest struct {
	Quantity decimal.Decimal
}

// MappingRequest binds a product to the bulk source it draws from.
type MappingRequest struct {
	ProductID int
	SourceID  int
	Factor    decimal.Decimal
}
