package net

import (
	"encoding/binary"
	"errors"
	"math"

	"fenrir/internal/id"
	"fenrir/internal/matching"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified field lengths")
)

// MessageType tags the fixed binary envelope each inbound frame opens with.
type MessageType uint16

const (
	NewOrder MessageType = iota
	CancelOrder
)

// Message format constants. Unlike the single-asset protocol this
// replaces, Item and User are variable-length (commodities and usernames
// are free text), so their lengths are carried as one-byte counts
// immediately before the variable section.
const (
	baseHeaderLen      = 2
	newOrderFixedLen   = 2 + 4 + 4 + 1 + 1 // side + amount + price + itemLen + userLen
	cancelOrderFixedLen = 16 + 1 + 1       // order id + side + itemLen
)

// NewOrderMessage is the binary encoding of a matching.PlaceRequest.
type NewOrderMessage struct {
	Side    matching.OrderSide
	Amount  uint32
	Price   float32
	Item    string
	User    string
}

// ParseMessage dispatches on the two-byte type header and decodes the
// remainder of msg into the matching concrete message type.
func ParseMessage(msg []byte) (any, error) {
	if len(msg) < baseHeaderLen {
		return nil, ErrMessageTooShort
	}
	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[2:]

	switch typeOf {
	case NewOrder:
		return parseNewOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	default:
		return nil, ErrInvalidMessageType
	}
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < newOrderFixedLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}

	side := matching.OrderSide(binary.BigEndian.Uint16(msg[0:2]))
	amount := binary.BigEndian.Uint32(msg[2:6])
	price := math.Float32frombits(binary.BigEndian.Uint32(msg[6:10]))
	itemLen := int(msg[10])
	userLen := int(msg[11])

	offset := newOrderFixedLen
	if len(msg) < offset+itemLen+userLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}

	item := string(msg[offset : offset+itemLen])
	offset += itemLen
	user := string(msg[offset : offset+userLen])

	return NewOrderMessage{Side: side, Amount: amount, Price: price, Item: item, User: user}, nil
}

// EncodeNewOrder is the inverse of parseNewOrder; cmd/client uses it to
// build outbound frames.
func EncodeNewOrder(m NewOrderMessage) []byte {
	item, user := []byte(m.Item), []byte(m.User)
	buf := make([]byte, baseHeaderLen+newOrderFixedLen+len(item)+len(user))

	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(m.Side))
	binary.BigEndian.PutUint32(buf[4:8], m.Amount)
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(m.Price))
	buf[12] = byte(len(item))
	buf[13] = byte(len(user))
	copy(buf[14:14+len(item)], item)
	copy(buf[14+len(item):], user)
	return buf
}

// CancelOrderMessage is the binary encoding of a cancel request.
type CancelOrderMessage struct {
	OrderID id.ID
	Side    matching.OrderSide
	Item    string
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < cancelOrderFixedLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}

	var rawID [16]byte
	copy(rawID[:], msg[0:16])
	side := matching.OrderSide(msg[16])
	itemLen := int(msg[17])

	if len(msg) < cancelOrderFixedLen+itemLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	item := string(msg[cancelOrderFixedLen : cancelOrderFixedLen+itemLen])

	return CancelOrderMessage{OrderID: id.ID(rawID), Side: side, Item: item}, nil
}

// EncodeCancelOrder is the inverse of parseCancelOrder.
func EncodeCancelOrder(m CancelOrderMessage) []byte {
	item := []byte(m.Item)
	buf := make([]byte, baseHeaderLen+cancelOrderFixedLen+len(item))

	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	copy(buf[2:18], m.OrderID[:])
	buf[18] = byte(m.Side)
	buf[19] = byte(len(item))
	copy(buf[20:], item)
	return buf
}
