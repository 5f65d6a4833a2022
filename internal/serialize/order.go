// Package serialize implements the market's text surface: JSON encodings of
// orders, ledgers, transactions, and summaries, plus the whole-market
// dump/load round trip. Field names here are the contract — they are not
// free to drift independently of the host wrappers in internal/wire.
package serialize

import (
	"encoding/json"
	"fmt"

	"fenrir/internal/id"
	"fenrir/internal/matching"
)

// kind strings for Order JSON, exactly as named in the contract.
const (
	kindBuy        = "BUY"
	kindSell       = "SELL"
	kindMarketBuy  = "MARKET_BUY"
	kindMarketSell = "MARKET_SELL"
)

func sideToKind(side matching.OrderSide) (string, error) {
	switch side {
	case matching.BuyLimit:
		return kindBuy, nil
	case matching.SellLimit:
		return kindSell, nil
	case matching.BuyMarket:
		return kindMarketBuy, nil
	case matching.SellMarket:
		return kindMarketSell, nil
	default:
		return "", fmt.Errorf("serialize: unknown order side %v", side)
	}
}

func kindToSide(kind string) (matching.OrderSide, error) {
	switch kind {
	case kindBuy:
		return matching.BuyLimit, nil
	case kindSell:
		return matching.SellLimit, nil
	case kindMarketBuy:
		return matching.BuyMarket, nil
	case kindMarketSell:
		return matching.SellMarket, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// orderJSON is the wire shape of matching.Order.
type orderJSON struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Kind     string  `json:"kind"`
	Amount   uint32  `json:"amount"`
	PricePer float32 `json:"price_per"`
}

// EncodeOrder renders o in the contract's Order JSON shape.
func EncodeOrder(o matching.Order) (json.RawMessage, error) {
	kind, err := sideToKind(o.Side)
	if err != nil {
		return nil, err
	}
	return json.Marshal(orderJSON{
		ID:       o.ID.String(),
		UserID:   o.User,
		Kind:     kind,
		Amount:   o.Amount,
		PricePer: o.Price,
	})
}

// DecodeOrder parses the contract's Order JSON shape. A malformed id string
// fails with ErrInvalidID so callers (see internal/wire) can report the
// "Invalid UUID string" failure reason without inspecting error internals.
func DecodeOrder(raw []byte) (matching.Order, error) {
	var dto orderJSON
	if err := json.Unmarshal(raw, &dto); err != nil {
		return matching.Order{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return decodeOrderDTO(dto)
}

func decodeOrderDTO(dto orderJSON) (matching.Order, error) {
	side, err := kindToSide(dto.Kind)
	if err != nil {
		return matching.Order{}, err
	}

	orderID, err := id.Parse(dto.ID)
	if err != nil {
		return matching.Order{}, ErrInvalidID
	}

	return matching.Order{
		ID:     orderID,
		User:   dto.UserID,
		Side:   side,
		Amount: dto.Amount,
		Price:  dto.PricePer,
	}, nil
}
