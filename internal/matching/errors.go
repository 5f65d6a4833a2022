package matching

import "errors"

var (
	// ErrZeroAmount is returned when a well-formedness check rejects an
	// order with amount < 1. The engine never rests or matches such an
	// order; place() fails the call and leaves the ledger unmodified.
	ErrZeroAmount = errors.New("order amount must be at least 1")

	// ErrNaNPrice is returned when a price field is NaN. Comparisons over
	// NaN are not a total order, so it is rejected at the boundary rather
	// than risked in the ledger.
	ErrNaNPrice = errors.New("order price must not be NaN")

	// ErrSideMismatch is returned by Restore when a would-be resting order
	// carries a side that cannot rest on the sequence it was placed in
	// (e.g. a market side, or a sell on the buy side).
	ErrSideMismatch = errors.New("order side does not match its resting sequence")

	// ErrDuplicateID is returned by Restore when two orders in the same
	// or opposing sequences share an identifier.
	ErrDuplicateID = errors.New("duplicate order id")
)
