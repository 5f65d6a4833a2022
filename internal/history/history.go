// Package history keeps a time-ordered archive of executed transactions,
// supplementing the core engine (which reports each Summary once and
// retains nothing) with the trade history the original Rust market kept in
// its own History map. It is deliberately outside the matching hot path:
// Record is called after a Market.Place call returns, never from within it.
package history

import (
	"context"
	"sync"

	"github.com/huandu/skiplist"
	"github.com/rs/zerolog/log"

	"fenrir/internal/matching"
)

// Entry pairs an executed Transaction with the item it traded on, since
// matching.Transaction itself carries no item field.
type Entry struct {
	Item        string
	Transaction matching.Transaction
}

// Archive is a time-ordered, in-memory trade log keyed by transaction
// timestamp (UnixNano). Ties are broken by insertion order via a
// monotonically incrementing tie-breaker, since skiplist keys must be
// distinct to retain every entry.
type Archive struct {
	mu   sync.RWMutex
	list *skiplist.SkipList
	seq  int64
	sink Sink
}

type seqKey struct {
	nanos int64
	seq   int64
}

// seqKeyAsc orders archive entries ascending by timestamp, ties broken by
// insertion sequence, mirroring the orderbook price-key comparators this
// package's skiplist use was grounded on.
type seqKeyAsc struct{}

func (seqKeyAsc) Compare(lhs, rhs interface{}) int {
	l, r := lhs.(seqKey), rhs.(seqKey)
	switch {
	case l.nanos != r.nanos:
		if l.nanos < r.nanos {
			return -1
		}
		return 1
	case l.seq != r.seq:
		if l.seq < r.seq {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (seqKeyAsc) CalcScore(key interface{}) float64 {
	k := key.(seqKey)
	return float64(k.nanos)
}

// Sink receives every recorded entry for out-of-process archival. It must
// not block the caller; New wires a non-blocking sink by default.
type Sink interface {
	Send(Entry)
}

// noopSink discards entries. Used when no external archival endpoint is
// configured.
type noopSink struct{}

func (noopSink) Send(Entry) {}

// New returns an empty archive. Pass a Sink built from internal/history's
// HTTPSink to forward every recorded entry to an external endpoint; pass
// nil to keep entries in-process only.
func New(sink Sink) *Archive {
	if sink == nil {
		sink = noopSink{}
	}
	return &Archive{
		list: skiplist.New(seqKeyAsc{}),
		sink: sink,
	}
}

// Record appends every transaction in transactions to the archive under item,
// then forwards each to the configured sink.
func (a *Archive) Record(item string, transactions []matching.Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, tx := range transactions {
		entry := Entry{Item: item, Transaction: tx}
		key := seqKey{nanos: tx.Timestamp.UnixNano(), seq: a.seq}
		a.seq++
		a.list.Set(key, entry)
		a.sink.Send(entry)
	}
}

// Since returns every entry recorded at or after cutoffNanos, oldest first.
func (a *Archive) Since(cutoffNanos int64) []Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []Entry
	for el := a.list.Front(); el != nil; el = el.Next() {
		key := el.Key().(seqKey)
		if key.nanos < cutoffNanos {
			continue
		}
		out = append(out, el.Value.(Entry))
	}
	return out
}

// Len reports the number of entries currently archived.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.list.Len()
}

// logDroppedSend is called by sinks that choose to log-and-drop rather
// than block or retry on a failed delivery.
func logDroppedSend(ctx context.Context, item string, err error) {
	log.Warn().Err(err).Str("item", item).Msg("history: dropped archive entry")
}
