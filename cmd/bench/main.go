// Command bench drives a Market with random orders in-process, the same
// shape of exercise the original Rust engine's speed_test ran: many users
// and items, a large number of random buy/sell requests, timed end to end.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/matching"
)

var (
	numOrders int
	numUsers  int
	numItems  int
	seed      int64
)

func main() {
	root := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the matching engine with random orders",
		RunE:  run,
	}
	root.Flags().IntVar(&numOrders, "orders", 300_000, "number of random orders to place")
	root.Flags().IntVar(&numUsers, "users", 26, "number of distinct users")
	root.Flags().IntVar(&numItems, "items", 16, "number of distinct items")
	root.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("bench: fatal error")
	}
}

// run drives the benchmark loop under a tomb so a SIGINT cuts it short
// cleanly: the loop checks t.Dying() between orders and still reports
// throughput over however many orders it managed, rather than losing the
// run entirely to an unhandled interrupt.
func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	t, ctx := tomb.WithContext(ctx)

	rng := rand.New(rand.NewSource(seed))

	users := make([]string, numUsers)
	for i := range users {
		users[i] = fmt.Sprintf("user-%02d", i)
	}
	items := make([]string, numItems)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i)
	}

	sides := []matching.OrderSide{matching.BuyLimit, matching.SellLimit, matching.BuyMarket, matching.SellMarket}

	market := matching.New()

	var placed, transactions int
	start := time.Now()

	t.Go(func() error {
		for i := 0; i < numOrders; i++ {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			req := matching.PlaceRequest{
				User:   users[rng.Intn(len(users))],
				Item:   items[rng.Intn(len(items))],
				Side:   sides[rng.Intn(len(sides))],
				Amount: uint32(rng.Intn(100) + 1),
				Price:  float32(rng.Intn(1000)) / 10.0,
			}
			summary, err := market.Place(req)
			if err != nil {
				return fmt.Errorf("bench: order %d: %w", i, err)
			}
			placed++
			transactions += len(summary.Transactions)
		}
		return nil
	})

	err := t.Wait()
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if placed < numOrders {
		log.Warn().Int("placed", placed).Int("requested", numOrders).Msg("bench: interrupted before completion")
	}
	fmt.Printf("placed %d orders (%d fills) across %d users / %d items in %s (%.0f orders/sec)\n",
		placed, transactions, numUsers, numItems, elapsed, float64(placed)/elapsed.Seconds())
	return nil
}
