// Command client is a thin CLI speaking the server's binary TCP ingest
// protocol directly: place one order per quantity in -qty, or cancel a
// single order, against a running server and exit.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"fenrir/internal/id"
	"fenrir/internal/matching"
	fenrirnet "fenrir/internal/net"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:7878", "address of the matching server")
	owner := flag.String("owner", "", "owner username (required)")
	action := flag.String("action", "place", "action to perform: 'place' or 'cancel'")

	item := flag.String("item", "CORN", "item to trade")
	sideStr := flag.String("side", "buy", "order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "order type: 'limit' or 'market'")
	price := flag.Float64("price", 100.0, "limit price")
	qtyStr := flag.String("qty", "10", "quantity or comma-separated list, e.g. 10,20,50")

	orderID := flag.String("id", "", "order id to cancel (required for -action cancel)")

	flag.Parse()

	if *owner == "" {
		fmt.Println("error: -owner is required")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %q\n", *serverAddr, *owner)

	switch strings.ToLower(*action) {
	case "place":
		side := sideFromFlags(*sideStr, *typeStr)
		for _, qty := range parseQuantities(*qtyStr) {
			msg := fenrirnet.EncodeNewOrder(fenrirnet.NewOrderMessage{
				Side:   side,
				Amount: qty,
				Price:  float32(*price),
				Item:   *item,
				User:   *owner,
			})
			if _, err := conn.Write(msg); err != nil {
				log.Printf("failed to place order (qty %d): %v", qty, err)
				continue
			}
			fmt.Printf("-> sent %s %s %d @ %.2f\n", strings.ToUpper(*sideStr), *item, qty, *price)
			time.Sleep(5 * time.Millisecond)
		}

	case "cancel":
		if *orderID == "" {
			log.Fatal("error: -id is required for -action cancel")
		}
		parsed, err := id.Parse(*orderID)
		if err != nil {
			log.Fatalf("invalid order id: %v", err)
		}
		side := sideFromFlags(*sideStr, "limit")
		msg := fenrirnet.EncodeCancelOrder(fenrirnet.CancelOrderMessage{
			OrderID: parsed,
			Side:    side,
			Item:    *item,
		})
		if _, err := conn.Write(msg); err != nil {
			log.Fatalf("failed to send cancel: %v", err)
		}
		fmt.Printf("-> sent cancel for %s\n", *orderID)

	default:
		log.Fatalf("unknown action: %s", *action)
	}
}

func sideFromFlags(sideStr, typeStr string) matching.OrderSide {
	isSell := strings.ToLower(sideStr) == "sell"
	isMarket := strings.ToLower(typeStr) == "market"

	switch {
	case isSell && isMarket:
		return matching.SellMarket
	case isSell:
		return matching.SellLimit
	case isMarket:
		return matching.BuyMarket
	default:
		return matching.BuyLimit
	}
}

func parseQuantities(input string) []uint32 {
	parts := strings.Split(input, ",")
	var result []uint32
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseUint(p, 10, 32); err == nil {
			result = append(result, uint32(val))
		} else {
			log.Printf("warning: invalid quantity %q, skipping", p)
		}
	}
	return result
}
