package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/matching"
)

type captureSink struct {
	entries []Entry
}

func (c *captureSink) Send(e Entry) {
	c.entries = append(c.entries, e)
}

func TestRecordOrdersByTimestamp(t *testing.T) {
	sink := &captureSink{}
	archive := New(sink)

	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	archive.Record("CORN", []matching.Transaction{
		{Buyer: "BOB", Seller: "ALICE", Amount: 1, Price: 1, Timestamp: newer},
	})
	archive.Record("CORN", []matching.Transaction{
		{Buyer: "BOB", Seller: "ALICE", Amount: 2, Price: 2, Timestamp: older},
	})

	require.Equal(t, 2, archive.Len())
	entries := archive.Since(0)
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(2), entries[0].Transaction.Amount, "older entry must sort first")
	assert.Equal(t, uint32(1), entries[1].Transaction.Amount)

	assert.Len(t, sink.entries, 2, "every recorded transaction must reach the sink")
}

func TestSinceFiltersByCutoff(t *testing.T) {
	archive := New(nil)
	cutoff := time.Now()
	archive.Record("CORN", []matching.Transaction{
		{Buyer: "BOB", Seller: "ALICE", Amount: 1, Price: 1, Timestamp: cutoff.Add(-time.Minute)},
		{Buyer: "BOB", Seller: "ALICE", Amount: 2, Price: 1, Timestamp: cutoff.Add(time.Minute)},
	})

	entries := archive.Since(cutoff.UnixNano())
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(2), entries[0].Transaction.Amount)
}
