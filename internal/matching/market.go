package matching

import (
	"math"
	"strings"

	"fenrir/internal/id"
)

// PlaceRequest carries the fields a caller supplies for a single order.
// The engine assigns the identifier; callers never choose one.
type PlaceRequest struct {
	User   string
	Item   string
	Side   OrderSide
	Amount uint32
	Price  float32
}

// Market maps a canonicalised item key to its Ledger. It is not safe for
// concurrent use: per spec, mutating operations (Place, Cancel, Restore)
// require exclusive access and read-only operations (Query, BestBuy,
// BestSell, Items) require only shared access, but the engine itself does
// no internal locking.
type Market struct {
	ledgers map[string]*Ledger
}

// New returns an empty market.
func New() *Market {
	return &Market{ledgers: make(map[string]*Ledger)}
}

// canonicalKey upper-cases the ASCII letters of an item name. Keys are
// created on first touch and never removed, even once a ledger empties.
func canonicalKey(item string) string {
	return strings.ToUpper(item)
}

func (m *Market) ledgerFor(item string) *Ledger {
	key := canonicalKey(item)
	ledger, ok := m.ledgers[key]
	if !ok {
		ledger = newLedger()
		m.ledgers[key] = ledger
	}
	return ledger
}

// Place runs price-time matching for one incoming order. Well-formed
// requests always succeed; a zero/negative amount or a NaN price is an
// invariant violation and fails the call without touching the ledger.
func (m *Market) Place(req PlaceRequest) (Summary, error) {
	if req.Amount < 1 {
		return Summary{}, ErrZeroAmount
	}
	if math.IsNaN(float64(req.Price)) {
		return Summary{}, ErrNaNPrice
	}

	key := canonicalKey(req.Item)
	ledger := m.ledgerFor(key)

	incoming := Order{
		ID:     id.New(),
		User:   req.User,
		Side:   req.Side,
		Amount: req.Amount,
		Price:  req.Price,
	}

	summary := match(ledger, incoming)
	summary.Key = key
	return summary, nil
}

// Cancel removes a resting order by identity. Only the two limit sides are
// addressable; market sides, and orders that don't exist, return absent.
func (m *Market) Cancel(item string, order Order) (Order, bool) {
	ledger, ok := m.ledgers[canonicalKey(item)]
	if !ok {
		return Order{}, false
	}
	switch order.Side {
	case BuyLimit:
		return ledger.buys.remove(order.ID)
	case SellLimit:
		return ledger.sells.remove(order.ID)
	default:
		return Order{}, false
	}
}

// Query returns a snapshot of the ledger under item, or absent if the key
// has never been touched.
func (m *Market) Query(item string) (*Ledger, bool) {
	ledger, ok := m.ledgers[canonicalKey(item)]
	if !ok {
		return nil, false
	}
	return ledger.Clone(), true
}

// BestBuy returns the highest-priced resting buy for item.
func (m *Market) BestBuy(item string) (Order, bool) {
	ledger, ok := m.ledgers[canonicalKey(item)]
	if !ok {
		return Order{}, false
	}
	return ledger.BestBuy()
}

// BestSell returns the lowest-priced resting sell for item.
func (m *Market) BestSell(item string) (Order, bool) {
	ledger, ok := m.ledgers[canonicalKey(item)]
	if !ok {
		return Order{}, false
	}
	return ledger.BestSell()
}

// Items returns a structurally independent snapshot of every ledger in the
// market, keyed by canonical item. Used by the serialiser to dump the
// whole market.
func (m *Market) Items() map[string]*Ledger {
	out := make(map[string]*Ledger, len(m.ledgers))
	for key, ledger := range m.ledgers {
		out[key] = ledger.Clone()
	}
	return out
}

// Restore replaces the ledger under item with one built directly from the
// given resting sequences, bypassing matching entirely. It is the
// serialiser's load primitive: buys must all be BuyLimit, sells must all
// be SellLimit, every resting order needs amount >= 1, and identifiers
// must be unique across both sequences. A rejected Restore leaves the
// market unmodified.
func (m *Market) Restore(item string, buys, sells []Order) error {
	seen := make(map[id.ID]struct{}, len(buys)+len(sells))

	for _, o := range buys {
		if o.Side != BuyLimit {
			return ErrSideMismatch
		}
		if o.Amount < 1 {
			return ErrZeroAmount
		}
		if _, dup := seen[o.ID]; dup {
			return ErrDuplicateID
		}
		seen[o.ID] = struct{}{}
	}
	for _, o := range sells {
		if o.Side != SellLimit {
			return ErrSideMismatch
		}
		if o.Amount < 1 {
			return ErrZeroAmount
		}
		if _, dup := seen[o.ID]; dup {
			return ErrDuplicateID
		}
		seen[o.ID] = struct{}{}
	}

	ledger := newLedger()
	for _, o := range buys {
		ledger.buys.insert(o)
	}
	for _, o := range sells {
		ledger.sells.insert(o)
	}

	m.ledgers[canonicalKey(item)] = ledger
	return nil
}
