package wire

import (
	"encoding/json"

	"fenrir/internal/matching"
	"fenrir/internal/serialize"
)

// QueryLedger accepts an item name and returns its ledger JSON, or the
// literal {} when the item has never been touched.
func QueryLedger(m *matching.Market, item string) (json.RawMessage, error) {
	ledger, ok := m.Query(item)
	if !ok {
		return empty, nil
	}
	return serialize.EncodeLedger(ledger)
}

// BestBuy returns the highest-priced resting buy as order JSON, or {} when
// absent.
func BestBuy(m *matching.Market, item string) (json.RawMessage, error) {
	order, ok := m.BestBuy(item)
	if !ok {
		return empty, nil
	}
	return serialize.EncodeOrder(order)
}

// BestSell returns the lowest-priced resting sell as order JSON, or {} when
// absent.
func BestSell(m *matching.Market, item string) (json.RawMessage, error) {
	order, ok := m.BestSell(item)
	if !ok {
		return empty, nil
	}
	return serialize.EncodeOrder(order)
}
