package core

import "errors"

// Typed failure kinds surfaced by the core services. Callers match them with
// errors.Is; services wrap them with fmt.Errorf("...: %w", Err...) to attach
// context without losing the kind. Any error not wrapping one of these is an
// infrastructure failure and should be treated as ErrStoreUnavailable.
var (
	// ErrProductNotFound means the referenced product id does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidQuantity means a quantity was zero, negative, or otherwise unusable.
	ErrInvalidQuantity = errors.New("quantity must be > 0")

	// ErrInsufficientStock means a source, inventory, or container quantity
	// would go negative. The stored quantity is never clamped.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidOrderDate means the order_date string matched no recognized format.
	ErrInvalidOrderDate = errors.New("order_date must be YYYY-MM-DD or an ISO datetime")

	// ErrFutureOrderDate means the resolved order timestamp is later than server time.
	ErrFutureOrderDate = errors.New("order date cannot be in the future")

	// ErrInvalidCredentials means a login failed: wrong password, or a
	// password-protected account attempted without one.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable means the durable store could not complete the transaction.
	ErrStoreUnavailable = errors.New("store unavailable")
)
