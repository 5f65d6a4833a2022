package matching

import "time"

// Transaction is a single trade report: one fill between an aggressor and
// a resting order. Price is the engine's price-of-record for that fill
// (see matcher.go's trade-price selection); Timestamp is informational
// only and never used for ordering decisions.
type Transaction struct {
	Buyer     string
	Seller    string
	Amount    uint32
	Price     float32
	Timestamp time.Time
}

// Summary is the per-request report returned by Market.Place. ToUpdate
// lists every resting order the matcher touched, in the order touched,
// with its post-match amount (possibly zero, meaning fully consumed and
// removed from the ledger). Created is the residual order newly rested by
// this request, if any.
type Summary struct {
	Key          string
	Transactions []Transaction
	ToUpdate     []Order
	Created      *Order
}
