package matching

import (
	"math"
	"testing"

	"fenrir/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, m *Market, user string, side OrderSide, amount uint32, price float32) Summary {
	t.Helper()
	summary, err := m.Place(PlaceRequest{User: user, Item: "corn", Side: side, Amount: amount, Price: price})
	require.NoError(t, err)
	return summary
}

func prices(orders []Order) []float32 {
	out := make([]float32, len(orders))
	for i, o := range orders {
		out[i] = o.Price
	}
	return out
}

// S1: two resting buys, no cross.
func TestScenario_S1_RestingBuysOnly(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 32, 12.0)
	place(t, m, "ALICE", BuyLimit, 12, 14.0)

	ledger, ok := m.Query("CORN")
	require.True(t, ok)

	buys := ledger.Buys()
	require.Len(t, buys, 2)
	assert.Equal(t, "BOB", buys[0].User)
	assert.Equal(t, uint32(32), buys[0].Amount)
	assert.Equal(t, float32(12.0), buys[0].Price)
	assert.Equal(t, "ALICE", buys[1].User)
	assert.Empty(t, ledger.Sells())
}

// S2: two resting sells, no cross.
func TestScenario_S2_RestingSellsOnly(t *testing.T) {
	m := New()
	place(t, m, "CAROL", SellLimit, 20, 10.0)
	place(t, m, "CAROL", SellLimit, 14, 15.0)

	ledger, ok := m.Query("CORN")
	require.True(t, ok)
	assert.Empty(t, ledger.Buys())
	sells := ledger.Sells()
	require.Len(t, sells, 2)
	assert.Equal(t, []float32{10.0, 15.0}, prices(sells))
}

// S3: S1 then two sells that cross into the book.
func TestScenario_S3_CrossingSells(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 32, 12.0)
	place(t, m, "ALICE", BuyLimit, 12, 14.0)
	place(t, m, "CAROL", SellLimit, 20, 10.0)
	place(t, m, "CAROL", SellLimit, 14, 15.0)

	ledger, ok := m.Query("CORN")
	require.True(t, ok)

	buys := ledger.Buys()
	require.Len(t, buys, 1)
	assert.Equal(t, "BOB", buys[0].User)
	assert.Equal(t, uint32(24), buys[0].Amount)

	sells := ledger.Sells()
	require.Len(t, sells, 1)
	assert.Equal(t, "CAROL", sells[0].User)
	assert.Equal(t, uint32(14), sells[0].Amount)
	assert.Equal(t, float32(15.0), sells[0].Price)
}

// S4: S3 followed by a buy that clears out the remaining sell side.
func TestScenario_S4_ClearsSellSide(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 32, 12.0)
	place(t, m, "ALICE", BuyLimit, 12, 14.0)
	place(t, m, "CAROL", SellLimit, 20, 10.0)
	place(t, m, "CAROL", SellLimit, 14, 15.0)
	place(t, m, "ALICE", BuyLimit, 14, 16.0)

	ledger, ok := m.Query("CORN")
	require.True(t, ok)

	buys := ledger.Buys()
	require.Len(t, buys, 1)
	assert.Equal(t, "BOB", buys[0].User)
	assert.Equal(t, uint32(24), buys[0].Amount)
	assert.Empty(t, ledger.Sells())
}

// S5: asymmetric trade-price rule — a limit sell aggressor fills at the
// resting buy's (maker) price.
func TestScenario_S5_LimitSellMakerPrice(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 12, 14.0)
	summary := place(t, m, "ALICE", SellLimit, 32, 12.0)

	require.Len(t, summary.Transactions, 1)
	tx := summary.Transactions[0]
	assert.Equal(t, "BOB", tx.Buyer)
	assert.Equal(t, "ALICE", tx.Seller)
	assert.Equal(t, uint32(12), tx.Amount)
	assert.Equal(t, float32(14.0), tx.Price)

	require.Len(t, summary.ToUpdate, 1)
	assert.Equal(t, uint32(0), summary.ToUpdate[0].Amount)

	require.NotNil(t, summary.Created)
	assert.Equal(t, "ALICE", summary.Created.User)
	assert.Equal(t, SellLimit, summary.Created.Side)
	assert.Equal(t, uint32(20), summary.Created.Amount)
	assert.Equal(t, float32(12.0), summary.Created.Price)
}

// S6: a market buy sweeps two resting sell levels and drops its residual.
func TestScenario_S6_MarketBuySweep(t *testing.T) {
	m := New()
	place(t, m, "BOB", SellLimit, 32, 12.0)
	place(t, m, "ALICE", SellLimit, 12, 14.0)
	summary := place(t, m, "CAROL", BuyMarket, 34, 0)

	ledger, ok := m.Query("CORN")
	require.True(t, ok)
	sells := ledger.Sells()
	require.Len(t, sells, 1)
	assert.Equal(t, "ALICE", sells[0].User)
	assert.Equal(t, uint32(10), sells[0].Amount)

	require.Len(t, summary.Transactions, 2)
	assert.Equal(t, uint32(32), summary.Transactions[0].Amount)
	assert.Equal(t, float32(12.0), summary.Transactions[0].Price)
	assert.Equal(t, uint32(2), summary.Transactions[1].Amount)
	assert.Equal(t, float32(14.0), summary.Transactions[1].Price)
	assert.Nil(t, summary.Created)
}

func TestMarketSellNominalPrice(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 32, 12.0)
	place(t, m, "ALICE", BuyLimit, 12, 14.0)
	summary := place(t, m, "CAROL", SellMarket, 34, 0)

	ledger, ok := m.Query("CORN")
	require.True(t, ok)
	buys := ledger.Buys()
	require.Len(t, buys, 1)
	assert.Equal(t, "BOB", buys[0].User)
	assert.Equal(t, uint32(10), buys[0].Amount)

	for _, tx := range summary.Transactions {
		assert.Equal(t, float32(0), tx.Price)
	}
}

func TestZeroAmountRejected(t *testing.T) {
	m := New()
	_, err := m.Place(PlaceRequest{User: "BOB", Item: "CORN", Side: BuyLimit, Amount: 0, Price: 1})
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, ok := m.Query("CORN")
	assert.False(t, ok, "a rejected place must not create a ledger entry for the order")
}

func TestNaNPriceRejected(t *testing.T) {
	m := New()
	_, err := m.Place(PlaceRequest{User: "BOB", Item: "CORN", Side: BuyLimit, Amount: 1, Price: float32(math.NaN())})
	assert.ErrorIs(t, err, ErrNaNPrice)
}

func TestCancelIdempotent(t *testing.T) {
	m := New()
	summary := place(t, m, "BOB", BuyLimit, 12, 14.0)
	order := *summary.Created

	removed, ok := m.Cancel("CORN", order)
	assert.True(t, ok)
	assert.Equal(t, order.ID, removed.ID)

	_, ok = m.Cancel("CORN", order)
	assert.False(t, ok, "a second cancel of the same order must return absent")
}

func TestCancelMarketSideAlwaysAbsent(t *testing.T) {
	m := New()
	place(t, m, "BOB", SellLimit, 32, 12.0)
	fake := Order{ID: id.New(), Side: BuyMarket, Amount: 1, Price: 0}
	_, ok := m.Cancel("CORN", fake)
	assert.False(t, ok)
}

func TestCaseInsensitiveItemKey(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 10, 1.0)
	_, ok := m.Query("corn")
	assert.True(t, ok)
	_, ok = m.Query("CoRn")
	assert.True(t, ok)
}

func TestBestPriceIdentity(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 32, 12.0)
	place(t, m, "ALICE", BuyLimit, 12, 14.0)
	place(t, m, "CAROL", SellLimit, 20, 16.0)
	place(t, m, "CAROL", SellLimit, 14, 18.0)

	ledger, _ := m.Query("CORN")
	buys := ledger.Buys()
	sells := ledger.Sells()

	bestBuy, ok := m.BestBuy("CORN")
	require.True(t, ok)
	assert.Equal(t, buys[len(buys)-1].ID, bestBuy.ID)

	bestSell, ok := m.BestSell("CORN")
	require.True(t, ok)
	assert.Equal(t, sells[0].ID, bestSell.ID)
}

func TestConservationOfAmount(t *testing.T) {
	m := New()
	place(t, m, "BOB", SellLimit, 32, 12.0)
	place(t, m, "ALICE", SellLimit, 12, 14.0)
	summary := place(t, m, "CAROL", BuyLimit, 34, 14.0)

	var filled uint32
	for _, tx := range summary.Transactions {
		filled += tx.Amount
	}
	var residual uint32
	if summary.Created != nil {
		residual = summary.Created.Amount
	}
	assert.Equal(t, uint32(34), filled+residual)
}

func TestSortednessAndSideTaggingInvariant(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 10, 5.0)
	place(t, m, "ALICE", BuyLimit, 10, 7.0)
	place(t, m, "BOB", BuyLimit, 10, 3.0)
	place(t, m, "CAROL", SellLimit, 10, 20.0)
	place(t, m, "CAROL", SellLimit, 10, 15.0)

	ledger, _ := m.Query("CORN")
	buys := ledger.Buys()
	for i := 1; i < len(buys); i++ {
		assert.LessOrEqual(t, buys[i-1].Price, buys[i].Price)
	}
	for _, o := range buys {
		assert.Equal(t, BuyLimit, o.Side)
		assert.GreaterOrEqual(t, o.Amount, uint32(1))
	}

	sells := ledger.Sells()
	for i := 1; i < len(sells); i++ {
		assert.LessOrEqual(t, sells[i-1].Price, sells[i].Price)
	}
	for _, o := range sells {
		assert.Equal(t, SellLimit, o.Side)
		assert.GreaterOrEqual(t, o.Amount, uint32(1))
	}
}

func TestTimePriorityWithinPriceLevel(t *testing.T) {
	m := New()
	place(t, m, "FIRST", SellLimit, 10, 5.0)
	place(t, m, "SECOND", SellLimit, 10, 5.0)
	summary := place(t, m, "TAKER", BuyLimit, 10, 5.0)

	require.Len(t, summary.Transactions, 1)
	assert.Equal(t, "FIRST", summary.Transactions[0].Seller)
}

func TestRestoreRejectsSideMismatch(t *testing.T) {
	m := New()
	err := m.Restore("CORN", []Order{{ID: id.New(), Side: SellLimit, Amount: 1, Price: 1}}, nil)
	assert.ErrorIs(t, err, ErrSideMismatch)
}

func TestRestoreRejectsDuplicateID(t *testing.T) {
	m := New()
	dup := id.New()
	err := m.Restore("CORN",
		[]Order{{ID: dup, Side: BuyLimit, Amount: 1, Price: 1}},
		[]Order{{ID: dup, Side: SellLimit, Amount: 1, Price: 2}},
	)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestRestoreRoundTripsOrdering(t *testing.T) {
	m := New()
	place(t, m, "BOB", BuyLimit, 32, 12.0)
	place(t, m, "ALICE", BuyLimit, 12, 14.0)
	place(t, m, "CAROL", SellLimit, 20, 16.0)

	ledger, _ := m.Query("CORN")
	buys, sells := ledger.Buys(), ledger.Sells()

	restored := New()
	require.NoError(t, restored.Restore("CORN", buys, sells))

	restoredLedger, ok := restored.Query("CORN")
	require.True(t, ok)
	assert.Equal(t, buys, restoredLedger.Buys())
	assert.Equal(t, sells, restoredLedger.Sells())
}
