package wire

import (
	"encoding/json"
	"fmt"

	"fenrir/internal/matching"
	"fenrir/internal/serialize"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// placeRequestJSON is the input shape for place-buy and place-sell. Side is
// fixed by which wrapper is called, never by the caller.
type placeRequestJSON struct {
	UserID   string  `json:"user_id" validate:"required"`
	Item     string  `json:"item" validate:"required"`
	Amount   uint32  `json:"amount" validate:"gte=1"`
	PricePer float32 `json:"price_per" validate:"min=0"`
}

func parsePlaceRequest(raw []byte) (placeRequestJSON, error) {
	var req placeRequestJSON
	if err := json.Unmarshal(raw, &req); err != nil {
		return placeRequestJSON{}, fmt.Errorf("wire: malformed place request: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return placeRequestJSON{}, fmt.Errorf("wire: invalid place request: %w", err)
	}
	return req, nil
}

func place(m *matching.Market, raw []byte, side matching.OrderSide) (json.RawMessage, error) {
	req, err := parsePlaceRequest(raw)
	if err != nil {
		return nil, err
	}

	summary, err := m.Place(matching.PlaceRequest{
		User:   req.UserID,
		Item:   req.Item,
		Side:   side,
		Amount: req.Amount,
		Price:  req.PricePer,
	})
	if err != nil {
		return nil, fmt.Errorf("wire: place: %w", err)
	}

	return serialize.EncodeSummary(summary)
}

// PlaceBuy accepts {user_id, item, amount, price_per} and returns the
// summary JSON of a resting BuyLimit request.
func PlaceBuy(m *matching.Market, raw []byte) (json.RawMessage, error) {
	return place(m, raw, matching.BuyLimit)
}

// PlaceSell accepts {user_id, item, amount, price_per} and returns the
// summary JSON of a resting SellLimit request.
func PlaceSell(m *matching.Market, raw []byte) (json.RawMessage, error) {
	return place(m, raw, matching.SellLimit)
}

// MarketBuy and MarketSell are supplementary wrappers for the two market
// variants; the contract's text surface describes only the limit wrappers,
// but the programmatic surface supports all four OrderSide values and a
// host needs a way to reach them.
func MarketBuy(m *matching.Market, raw []byte) (json.RawMessage, error) {
	return place(m, raw, matching.BuyMarket)
}

func MarketSell(m *matching.Market, raw []byte) (json.RawMessage, error) {
	return place(m, raw, matching.SellMarket)
}
