package matching

import (
	"container/list"

	"fenrir/internal/id"
	"github.com/tidwall/btree"
)

// priceLevel holds every resting order at one price, in FIFO (time
// priority) order. Per Design Notes, this is the production-grade
// substitute for a flat sorted slice: insertion and removal at a level are
// O(1) once the level is located, and the level itself is O(log n) to find
// via the price-keyed tree.
type priceLevel struct {
	price  float32
	orders *list.List // of *ledgerEntry
}

// ledgerEntry is the resting-order record kept in a price level's FIFO
// queue. elem lets remove() drop an order in O(1) without rescanning the
// queue.
type ledgerEntry struct {
	order Order
	elem  *list.Element
}

func levelLess(a, b *priceLevel) bool {
	return a.price < b.price
}

// orderSide is one resting sequence (buys or sells), sorted ascending by
// price with FIFO ordering preserved within a price level.
type orderSide struct {
	levels *btree.BTreeG[*priceLevel]
	index  map[id.ID]*ledgerEntry
}

func newOrderSide() *orderSide {
	return &orderSide{
		levels: btree.NewBTreeG(levelLess),
		index:  make(map[id.ID]*ledgerEntry),
	}
}

// insert rests o at its price level, after any existing orders at that
// price (time priority).
func (s *orderSide) insert(o Order) {
	lvl, ok := s.levels.Get(&priceLevel{price: o.Price})
	if !ok {
		lvl = &priceLevel{price: o.Price, orders: list.New()}
		s.levels.Set(lvl)
	}
	entry := &ledgerEntry{order: o}
	entry.elem = lvl.orders.PushBack(entry)
	s.index[o.ID] = entry
}

// remove drops the resting order with the given id, if present.
func (s *orderSide) remove(orderID id.ID) (Order, bool) {
	entry, ok := s.index[orderID]
	if !ok {
		return Order{}, false
	}
	lvl, ok := s.levels.Get(&priceLevel{price: entry.order.Price})
	if ok {
		lvl.orders.Remove(entry.elem)
		if lvl.orders.Len() == 0 {
			s.levels.Delete(&priceLevel{price: lvl.price})
		}
	}
	delete(s.index, orderID)
	return entry.order, true
}

// dropEmptyLevels removes any price levels left with no orders after a
// match. Called by the matcher once a scan's consumption is finalised.
func (s *orderSide) dropEmptyLevels(levels []*priceLevel) {
	for _, lvl := range levels {
		if lvl.orders.Len() == 0 {
			s.levels.Delete(&priceLevel{price: lvl.price})
		}
	}
}

// levelsAscending returns price levels from lowest to highest. When
// unconditional is false, the scan stops at (and excludes) the first level
// priced above limit.
func (s *orderSide) levelsAscending(limit float32, unconditional bool) []*priceLevel {
	var levels []*priceLevel
	s.levels.Scan(func(lvl *priceLevel) bool {
		if !unconditional && lvl.price > limit {
			return false
		}
		levels = append(levels, lvl)
		return true
	})
	return levels
}

// levelsDescending returns price levels from highest to lowest. When
// unconditional is false, the scan stops at (and excludes) the first level
// priced below limit.
func (s *orderSide) levelsDescending(limit float32, unconditional bool) []*priceLevel {
	var levels []*priceLevel
	s.levels.Reverse(func(lvl *priceLevel) bool {
		if !unconditional && lvl.price < limit {
			return false
		}
		levels = append(levels, lvl)
		return true
	})
	return levels
}

func (s *orderSide) isEmpty() bool {
	return s.levels.Len() == 0
}

// flatten returns every resting order, ascending by price and, within a
// price, in time (insertion) order.
func (s *orderSide) flatten() []Order {
	out := make([]Order, 0, len(s.index))
	s.levels.Scan(func(lvl *priceLevel) bool {
		for e := lvl.orders.Front(); e != nil; e = e.Next() {
			out = append(out, e.Value.(*ledgerEntry).order)
		}
		return true
	})
	return out
}

func (s *orderSide) firstOrder() (Order, bool) {
	lvl, ok := s.levels.Min()
	if !ok || lvl.orders.Len() == 0 {
		return Order{}, false
	}
	return lvl.orders.Front().Value.(*ledgerEntry).order, true
}

func (s *orderSide) lastOrder() (Order, bool) {
	lvl, ok := s.levels.Max()
	if !ok || lvl.orders.Len() == 0 {
		return Order{}, false
	}
	return lvl.orders.Back().Value.(*ledgerEntry).order, true
}

// Ledger is the per-item pair of sorted resting sequences.
type Ledger struct {
	buys  *orderSide
	sells *orderSide
}

func newLedger() *Ledger {
	return &Ledger{buys: newOrderSide(), sells: newOrderSide()}
}

// Buys returns every resting buy, ascending by price.
func (l *Ledger) Buys() []Order { return l.buys.flatten() }

// Sells returns every resting sell, ascending by price.
func (l *Ledger) Sells() []Order { return l.sells.flatten() }

// BestBuy is the last (highest-priced) resting buy.
func (l *Ledger) BestBuy() (Order, bool) { return l.buys.lastOrder() }

// BestSell is the first (lowest-priced) resting sell.
func (l *Ledger) BestSell() (Order, bool) { return l.sells.firstOrder() }

// Clone returns a structurally independent snapshot of the ledger: later
// mutations to either copy are invisible to the other.
func (l *Ledger) Clone() *Ledger {
	clone := newLedger()
	for _, o := range l.Buys() {
		clone.buys.insert(o)
	}
	for _, o := range l.Sells() {
		clone.sells.insert(o)
	}
	return clone
}
