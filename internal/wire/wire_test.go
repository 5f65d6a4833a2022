package wire

import (
	"encoding/json"
	"testing"

	"fenrir/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBuyAndQueryLedger(t *testing.T) {
	m := matching.New()

	raw, err := PlaceBuy(m, []byte(`{"user_id":"BOB","item":"corn","amount":32,"price_per":12.0}`))
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, "CORN", summary["key"])

	ledgerRaw, err := QueryLedger(m, "corn")
	require.NoError(t, err)

	var ledger map[string]any
	require.NoError(t, json.Unmarshal(ledgerRaw, &ledger))
	buys := ledger["buy_orders"].([]any)
	require.Len(t, buys, 1)
}

func TestQueryLedgerAbsentItemReturnsEmptyObject(t *testing.T) {
	m := matching.New()
	raw, err := QueryLedger(m, "nonexistent")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestBestBuyAbsentReturnsEmptyObject(t *testing.T) {
	m := matching.New()
	raw, err := BestBuy(m, "corn")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestCancelSuccessAndNotFound(t *testing.T) {
	m := matching.New()
	summaryRaw, err := PlaceBuy(m, []byte(`{"user_id":"BOB","item":"corn","amount":32,"price_per":12.0}`))
	require.NoError(t, err)

	var summary struct {
		Created json.RawMessage `json:"created"`
	}
	require.NoError(t, json.Unmarshal(summaryRaw, &summary))

	cancelRaw, err := Cancel(m, []byte(`{"item":"corn","order":`+string(summary.Created)+`}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"SUCCESS"}`, string(cancelRaw))

	cancelAgainRaw, err := Cancel(m, []byte(`{"item":"corn","order":`+string(summary.Created)+`}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"FAILURE","reason":"Order does not exist"}`, string(cancelAgainRaw))
}

func TestCancelInvalidUUID(t *testing.T) {
	m := matching.New()
	order := `{"id":"not-a-uuid","user_id":"BOB","kind":"BUY","amount":1,"price_per":1}`
	raw, err := Cancel(m, []byte(`{"item":"corn","order":`+order+`}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"FAILURE","reason":"Invalid UUID string"}`, string(raw))
}

func TestDumpLoadRoundTrip(t *testing.T) {
	m := matching.New()
	_, err := PlaceBuy(m, []byte(`{"user_id":"BOB","item":"corn","amount":32,"price_per":12.0}`))
	require.NoError(t, err)

	dump, err := Dump(m)
	require.NoError(t, err)

	loaded, err := Load(dump)
	require.NoError(t, err)

	ledger, ok := loaded.Query("CORN")
	require.True(t, ok)
	assert.Len(t, ledger.Buys(), 1)
}
