package wire

import (
	"encoding/json"
	"errors"

	"fenrir/internal/matching"
	"fenrir/internal/serialize"
)

// cancelRequestJSON is the input shape for Cancel: an item name plus the
// order to remove, addressed by id and side.
type cancelRequestJSON struct {
	Item  string          `json:"item" validate:"required"`
	Order json.RawMessage `json:"order" validate:"required"`
}

// Cancel accepts {item, order} and returns the SUCCESS/FAILURE status JSON
// described in §6. A malformed id string in the order payload yields the
// "Invalid UUID string" reason; a well-formed but unmatched order yields
// "Order does not exist".
func Cancel(m *matching.Market, raw []byte) (json.RawMessage, error) {
	var req cancelRequestJSON
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	order, err := serialize.DecodeOrder(req.Order)
	if err != nil {
		if errors.Is(err, serialize.ErrInvalidID) {
			return failureResponse(ReasonInvalidUUID), nil
		}
		return failureResponse(ReasonOrderNotFound), nil
	}

	if _, ok := m.Cancel(req.Item, order); !ok {
		return failureResponse(ReasonOrderNotFound), nil
	}
	return successResponse, nil
}
