package serialize

import (
	"encoding/json"
	"fmt"

	"fenrir/internal/matching"
)

// DumpMarket renders the whole market as { item_key: ledger_json, ... }.
func DumpMarket(m *matching.Market) (json.RawMessage, error) {
	items := m.Items()
	out := make(map[string]json.RawMessage, len(items))
	for key, ledger := range items {
		encoded, err := EncodeLedger(ledger)
		if err != nil {
			return nil, fmt.Errorf("serialize: dump item %q: %w", key, err)
		}
		out[key] = encoded
	}
	return json.Marshal(out)
}

// LoadMarket parses the { item_key: ledger_json, ... } shape produced by
// DumpMarket and returns a freshly populated Market. A malformed document,
// or any single item failing Restore's invariants, fails the whole call —
// load either replaces the market entirely or not at all.
func LoadMarket(raw []byte) (*matching.Market, error) {
	var items map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	market := matching.New()
	for key, ledgerRaw := range items {
		buys, sells, err := DecodeLedger(ledgerRaw)
		if err != nil {
			return nil, fmt.Errorf("serialize: load item %q: %w", key, err)
		}
		if err := market.Restore(key, buys, sells); err != nil {
			return nil, fmt.Errorf("serialize: load item %q: %w", key, err)
		}
	}
	return market, nil
}
