// Package net is the binary TCP ingest for the matching engine: a fixed
// worker pool reads framed order/cancel requests off client connections
// and applies them to a shared Market, the way the original single-asset
// protocol this package is descended from did for one engine.
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/account"
	"fenrir/internal/feed"
	"fenrir/internal/history"
	"fenrir/internal/matching"
)

const (
	maxFrameSize       = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = 10 * time.Second
)

var (
	ErrImproperConversion = errors.New("net: improper task type conversion")
	ErrClientDoesNotExist = errors.New("net: client does not exist")
)

// clientSession tracks one accepted connection.
type clientSession struct {
	conn net.Conn
}

// Server accepts connections, decodes framed requests, and applies them to
// market. It is single-writer with respect to market: every request is
// routed through handleMessage on the owning goroutine's call stack, never
// concurrently, matching the engine's single-threaded concurrency model.
type Server struct {
	address string
	port    int
	market   *matching.Market
	archive  *history.Archive
	feed     *feed.Hub
	accounts *account.Registry

	pool               WorkerPool
	cancel             context.CancelFunc
	clientSessions     map[string]clientSession
	clientSessionsLock sync.Mutex
	inbound            chan inboundMessage
}

type inboundMessage struct {
	clientAddress string
	payload       any
}

// New returns a server that will serve market over address:port once Run
// is called. archive and feedHub may be nil to disable trade archival and
// live broadcast respectively; accounts may be nil to disable participant
// tracking. workers sizes the connection-handling pool; a value <= 0 falls
// back to defaultNWorkers.
func New(address string, port int, market *matching.Market, archive *history.Archive, feedHub *feed.Hub, accounts *account.Registry, workers int) *Server {
	if workers <= 0 {
		workers = defaultNWorkers
	}
	return &Server{
		address:        address,
		port:           port,
		market:         market,
		archive:        archive,
		feed:           feedHub,
		accounts:       accounts,
		pool:           NewWorkerPool(workers),
		clientSessions: make(map[string]clientSession),
		inbound:        make(chan inboundMessage, 1),
	}
}

// Shutdown cancels the server's run context, draining in-flight work.
func (s *Server) Shutdown() {
	log.Info().Msg("net: server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run accepts connections until ctx is cancelled or Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		return fmt.Errorf("net: listen: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("net: closing listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("address", listener.Addr().String()).Msg("net: server running")

	for {
		select {
		case <-ctx.Done():
			return t.Wait()
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("net: accept failed")
				continue
			}
			s.addClientSession(conn)
			activeConnections.Inc()
			s.pool.AddTask(conn)
		}
	}
}

func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case msg := <-s.inbound:
			if err := s.handleMessage(msg); err != nil {
				log.Error().Err(err).Str("client", msg.clientAddress).Msg("net: error handling message")
			}
		}
	}
}

func (s *Server) handleMessage(msg inboundMessage) error {
	switch payload := msg.payload.(type) {
	case NewOrderMessage:
		ordersProcessed.WithLabelValues("new_order").Inc()
		summary, err := s.market.Place(matching.PlaceRequest{
			User:   payload.User,
			Item:   payload.Item,
			Side:   payload.Side,
			Amount: payload.Amount,
			Price:  payload.Price,
		})
		if err != nil {
			ordersFailed.WithLabelValues("new_order").Inc()
			return err
		}
		if s.archive != nil {
			s.archive.Record(summary.Key, summary.Transactions)
		}
		if s.feed != nil {
			s.feed.Publish(feed.Event{Item: summary.Key, Transactions: summary.Transactions})
		}
		if s.accounts != nil {
			s.accounts.Touch(payload.User, time.Now())
		}
		return nil
	case CancelOrderMessage:
		ordersProcessed.WithLabelValues("cancel").Inc()
		if _, ok := s.market.Cancel(payload.Item, matching.Order{ID: payload.OrderID, Side: payload.Side}); !ok {
			ordersFailed.WithLabelValues("cancel").Inc()
			return ErrClientDoesNotExist
		}
		return nil
	default:
		return ErrInvalidMessageType
	}
}

func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Str("address", conn.RemoteAddr().String()).Err(err).Msg("net: closing connection")
		}
		s.deleteClientSession(conn.RemoteAddr().String())
		activeConnections.Dec()
	}()

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Err(err).Msg("net: setting connection deadline")
		return nil
	}

	buffer := make([]byte, maxFrameSize)
	select {
	case <-t.Dying():
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			return nil
		}

		payload, err := ParseMessage(buffer[:n])
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("net: error parsing message")
			s.pool.AddTask(conn)
			return nil
		}

		s.inbound <- inboundMessage{clientAddress: conn.RemoteAddr().String(), payload: payload}
		s.pool.AddTask(conn)
	}
	return nil
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = clientSession{conn: conn}
}

func (s *Server) deleteClientSession(address string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, address)
}
