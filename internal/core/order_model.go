package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one recorded sale. UnitPrice and Total are snapshots taken at
// recording time; later catalog price edits never alter them.
type Order struct {
	ID            int             `json:"id"`
	ProductID     int             `json:"product_id"`
	ProductName   string          `json:"product_name"` // joined; empty if the product was deleted
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Timestamp     time.Time       `json:"timestamp"`
	CreatedBy     *int            `json:"created_by,omitempty"`
	BottlesUsed   int             `json:"bottles_used"`
	BottlePrice   decimal.Decimal `json:"bottle_price"`
	// ClientTimestamp is the raw device timestamp string as supplied by the
	// client, retained for audit even when it failed to parse.
	ClientTimestamp *string `json:"client_timestamp,omitempty"`
}

// OrderRequest carries all inputs for recording one order. Fields arrive
// already JSON-decoded; the core performs all semantic validation.
type OrderRequest struct {
	ProductID     int
	Quantity      decimal.Decimal
	PaymentMethod string // defaults to "Cash" when empty
	// OrderDate is an optional backdate: a full datetime, or a bare
	// YYYY-MM-DD combined with the current time of day.
	OrderDate string
	// ClientTimestamp is the optional device timestamp. When it parses it
	// takes priority over OrderDate.
	ClientTimestamp string
	CreatedBy       *int
	// UseContainer requests reusable-bottle consumption and enables the
	// ContainerPrice surcharge.
	UseContainer bool
	// ContainerCount, when non-nil, overrides the derived bottle count.
	ContainerCount *int
	// ContainerPrice is the per-bottle surcharge; only charged when
	// UseContainer is set and the price is positive.
	ContainerPrice decimal.Decimal
}
