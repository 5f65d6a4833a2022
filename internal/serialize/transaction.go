package serialize

import (
	"encoding/json"

	"fenrir/internal/matching"
)

// transactionJSON is the wire shape of matching.Transaction. The text
// surface carries no timestamp, per contract.
type transactionJSON struct {
	Buyer    string  `json:"buyer"`
	Seller   string  `json:"seller"`
	Amount   uint32  `json:"amount"`
	PricePer float32 `json:"price_per"`
}

func encodeTransaction(t matching.Transaction) transactionJSON {
	return transactionJSON{
		Buyer:    t.Buyer,
		Seller:   t.Seller,
		Amount:   t.Amount,
		PricePer: t.Price,
	}
}

// EncodeTransaction renders a single transaction in contract JSON shape.
func EncodeTransaction(t matching.Transaction) (json.RawMessage, error) {
	return json.Marshal(encodeTransaction(t))
}
