// Command server runs the matching engine behind a binary TCP ingest and
// a JSON/HTTP host surface: place/cancel/query/best/dump over HTTP (load
// has no HTTP route), a live trade feed over websocket, and Prometheus
// metrics.
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fenrir/internal/account"
	"fenrir/internal/config"
	"fenrir/internal/feed"
	"fenrir/internal/history"
	"fenrir/internal/matching"
	fenrirnet "fenrir/internal/net"
	"fenrir/internal/wire"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "server",
		Short: "Run the matching engine's TCP and HTTP surfaces",
		RunE:  run,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML/JSON/TOML config file")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("server: fatal error")
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	market := matching.New()

	var sink history.Sink
	if cfg.ArchiveSinkURL != "" {
		sink = history.NewHTTPSink(cfg.ArchiveSinkURL, cfg.ArchiveTimeout)
	}
	archive := history.New(sink)

	feedHub := feed.NewHub()
	go func() {
		if err := feedHub.Run(ctx); err != nil {
			log.Error().Err(err).Msg("server: feed hub exited")
		}
	}()

	accounts := account.New()

	srv := fenrirnet.New(cfg.TCPAddress, cfg.TCPPort, market, archive, feedHub, accounts, cfg.Workers)
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("server: tcp server exited")
		}
	}()

	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, promhttp.Handler())
	mux.HandleFunc(cfg.FeedPath, feedHub.ServeHTTP)
	registerWireRoutes(mux, market)

	httpServer := &http.Server{Addr: cfg.HTTPAddress, Handler: mux}
	go func() {
		log.Info().Str("address", cfg.HTTPAddress).Msg("server: http surface listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server: http surface exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server: shutting down")
	return httpServer.Shutdown(context.Background())
}

// registerWireRoutes exposes the host-facing text surface over HTTP: the
// place and cancel operations take a JSON request body, while query,
// best-buy, best-sell and dump read the item from the "item" query
// parameter (dump takes none). Load is not exposed.
func registerWireRoutes(mux *http.ServeMux, market *matching.Market) {
	post := func(path string, handler func([]byte) (json.RawMessage, error)) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			raw, err := handler(body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(raw)
		})
	}

	post("/place-buy", func(body []byte) (json.RawMessage, error) { return wire.PlaceBuy(market, body) })
	post("/place-sell", func(body []byte) (json.RawMessage, error) { return wire.PlaceSell(market, body) })
	post("/market-buy", func(body []byte) (json.RawMessage, error) { return wire.MarketBuy(market, body) })
	post("/market-sell", func(body []byte) (json.RawMessage, error) { return wire.MarketSell(market, body) })
	post("/cancel", func(body []byte) (json.RawMessage, error) { return wire.Cancel(market, body) })

	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		raw, err := wire.QueryLedger(market, r.URL.Query().Get("item"))
		writeJSON(w, raw, err)
	})
	mux.HandleFunc("/best-buy", func(w http.ResponseWriter, r *http.Request) {
		raw, err := wire.BestBuy(market, r.URL.Query().Get("item"))
		writeJSON(w, raw, err)
	})
	mux.HandleFunc("/best-sell", func(w http.ResponseWriter, r *http.Request) {
		raw, err := wire.BestSell(market, r.URL.Query().Get("item"))
		writeJSON(w, raw, err)
	})
	mux.HandleFunc("/dump", func(w http.ResponseWriter, r *http.Request) {
		raw, err := wire.Dump(market)
		writeJSON(w, raw, err)
	})
}

func writeJSON(w http.ResponseWriter, raw json.RawMessage, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
