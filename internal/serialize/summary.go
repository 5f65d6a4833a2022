package serialize

import (
	"encoding/json"

	"fenrir/internal/matching"
)

// summaryJSON is the wire shape of matching.Summary. Created is a pointer
// so an absent residual marshals as the contract's literal null.
type summaryJSON struct {
	Key          string             `json:"key"`
	Transactions []transactionJSON  `json:"transactions"`
	ToUpdate     []orderJSON        `json:"to_update"`
	Created      *orderJSON         `json:"created"`
}

// EncodeSummary renders a Summary in the {key, transactions, to_update,
// created} shape returned by the place-buy / place-sell wrappers.
func EncodeSummary(summary matching.Summary) (json.RawMessage, error) {
	dto := summaryJSON{
		Key:          summary.Key,
		Transactions: make([]transactionJSON, 0, len(summary.Transactions)),
		ToUpdate:     make([]orderJSON, 0, len(summary.ToUpdate)),
	}

	for _, tx := range summary.Transactions {
		dto.Transactions = append(dto.Transactions, encodeTransaction(tx))
	}

	for _, o := range summary.ToUpdate {
		kind, err := sideToKind(o.Side)
		if err != nil {
			return nil, err
		}
		dto.ToUpdate = append(dto.ToUpdate, orderJSON{
			ID:       o.ID.String(),
			UserID:   o.User,
			Kind:     kind,
			Amount:   o.Amount,
			PricePer: o.Price,
		})
	}

	if summary.Created != nil {
		kind, err := sideToKind(summary.Created.Side)
		if err != nil {
			return nil, err
		}
		dto.Created = &orderJSON{
			ID:       summary.Created.ID.String(),
			UserID:   summary.Created.User,
			Kind:     kind,
			Amount:   summary.Created.Amount,
			PricePer: summary.Created.Price,
		}
	}

	return json.Marshal(dto)
}
