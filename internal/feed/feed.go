// Package feed broadcasts executed transactions to connected websocket
// clients, the live view the original in-process engine has no equivalent
// of on its own: the core reports a Summary once, to its caller, and keeps
// nothing; feed is the supplementary fan-out for everyone else watching.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/matching"
)

// Event is a single published notification: every transaction produced by
// one Market.Place call against one item.
type Event struct {
	Item         string                  `json:"item"`
	Transactions []matching.Transaction `json:"transactions"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans a single publish out to every currently-connected subscriber.
// A slow subscriber is dropped rather than allowed to back-pressure the
// publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	cancel      context.CancelFunc
}

// NewHub returns an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Run keeps the hub alive until ctx is cancelled, closing every subscriber
// channel on the way out. There is no per-connection work to supervise
// here beyond the handler goroutines websocket.Upgrade spawns per request,
// but the tomb gives feed the same shutdown shape as internal/net's server.
func (h *Hub) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)
	ctx, h.cancel = context.WithCancel(ctx)
	t.Go(func() error {
		<-ctx.Done()
		h.closeAll()
		return nil
	})
	log.Info().Msg("feed: hub running")
	return t.Wait()
}

// Shutdown stops the hub.
func (h *Hub) Shutdown() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		close(sub)
		delete(h.subscribers, sub)
	}
}

// Publish fans event out to every subscriber with room in its buffer.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub <- event:
		default:
			log.Warn().Msg("feed: dropping slow subscriber")
			close(sub)
			delete(h.subscribers, sub)
		}
	}
}

func (h *Hub) subscribe() chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// ServeHTTP upgrades the request to a websocket and streams every
// published Event to it as JSON until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("feed: websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.subscribe()
	defer h.unsubscribe(sub)

	for event := range sub {
		raw, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Msg("feed: marshalling event")
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}
