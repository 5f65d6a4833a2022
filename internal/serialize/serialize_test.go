package serialize

import (
	"testing"

	"fenrir/internal/id"
	"fenrir/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRoundTrip(t *testing.T) {
	original := matching.Order{
		ID:     id.New(),
		User:   "BOB",
		Side:   matching.BuyLimit,
		Amount: 32,
		Price:  12.5,
	}

	raw, err := EncodeOrder(original)
	require.NoError(t, err)

	decoded, err := DecodeOrder(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeOrderInvalidID(t *testing.T) {
	raw := []byte(`{"id":"not-a-uuid","user_id":"BOB","kind":"BUY","amount":1,"price_per":1}`)
	_, err := DecodeOrder(raw)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDecodeOrderUnknownKind(t *testing.T) {
	raw := []byte(`{"id":"` + id.New().String() + `","user_id":"BOB","kind":"HOLD","amount":1,"price_per":1}`)
	_, err := DecodeOrder(raw)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestMarketDumpLoadRoundTrip(t *testing.T) {
	m := matching.New()
	_, err := m.Place(matching.PlaceRequest{User: "BOB", Item: "corn", Side: matching.BuyLimit, Amount: 32, Price: 12.0})
	require.NoError(t, err)
	_, err = m.Place(matching.PlaceRequest{User: "ALICE", Item: "corn", Side: matching.BuyLimit, Amount: 12, Price: 14.0})
	require.NoError(t, err)
	_, err = m.Place(matching.PlaceRequest{User: "CAROL", Item: "wheat", Side: matching.SellLimit, Amount: 5, Price: 3.0})
	require.NoError(t, err)

	dump, err := DumpMarket(m)
	require.NoError(t, err)

	loaded, err := LoadMarket(dump)
	require.NoError(t, err)

	before, _ := m.Query("CORN")
	after, ok := loaded.Query("CORN")
	require.True(t, ok)
	assert.Equal(t, before.Buys(), after.Buys())
	assert.Equal(t, before.Sells(), after.Sells())

	beforeWheat, _ := m.Query("WHEAT")
	afterWheat, ok := loaded.Query("WHEAT")
	require.True(t, ok)
	assert.Equal(t, beforeWheat.Sells(), afterWheat.Sells())
}

func TestLoadMarketRejectsMalformed(t *testing.T) {
	_, err := LoadMarket([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)
}
