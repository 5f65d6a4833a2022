package wire

import (
	"encoding/json"

	"fenrir/internal/matching"
	"fenrir/internal/serialize"
)

// Dump renders the whole market as { item_key: ledger_json, ... }.
func Dump(m *matching.Market) (json.RawMessage, error) {
	return serialize.DumpMarket(m)
}

// Load parses the { item_key: ledger_json, ... } shape and returns a fresh
// Market. The caller is responsible for swapping it in for the running
// instance; Load never mutates an existing Market in place.
func Load(raw []byte) (*matching.Market, error) {
	return serialize.LoadMarket(raw)
}
