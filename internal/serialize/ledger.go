package serialize

import (
	"encoding/json"
	"fmt"

	"fenrir/internal/matching"
)

// ledgerJSON is the wire shape of a matching.Ledger snapshot.
type ledgerJSON struct {
	BuyOrders  []orderJSON `json:"buy_orders"`
	SellOrders []orderJSON `json:"sell_orders"`
}

func encodeOrders(orders []matching.Order) ([]orderJSON, error) {
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		kind, err := sideToKind(o.Side)
		if err != nil {
			return nil, err
		}
		out = append(out, orderJSON{
			ID:       o.ID.String(),
			UserID:   o.User,
			Kind:     kind,
			Amount:   o.Amount,
			PricePer: o.Price,
		})
	}
	return out, nil
}

// EncodeLedger renders a ledger snapshot in the {buy_orders, sell_orders}
// shape used both by the standalone query-ledger wrapper and by dump.
func EncodeLedger(ledger *matching.Ledger) (json.RawMessage, error) {
	buys, err := encodeOrders(ledger.Buys())
	if err != nil {
		return nil, err
	}
	sells, err := encodeOrders(ledger.Sells())
	if err != nil {
		return nil, err
	}
	return json.Marshal(ledgerJSON{BuyOrders: buys, SellOrders: sells})
}

// DecodeLedger parses the {buy_orders, sell_orders} shape into resting
// order sequences, ready for matching.Market.Restore. It does not itself
// enforce side tagging or uniqueness — Restore does that, atomically,
// across the item's two sequences.
func DecodeLedger(raw []byte) (buys, sells []matching.Order, err error) {
	var dto ledgerJSON
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	buys = make([]matching.Order, 0, len(dto.BuyOrders))
	for _, o := range dto.BuyOrders {
		order, err := decodeOrderDTO(o)
		if err != nil {
			return nil, nil, err
		}
		buys = append(buys, order)
	}

	sells = make([]matching.Order, 0, len(dto.SellOrders))
	for _, o := range dto.SellOrders {
		order, err := decodeOrderDTO(o)
		if err != nil {
			return nil, nil, err
		}
		sells = append(sells, order)
	}

	return buys, sells, nil
}
