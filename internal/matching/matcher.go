package matching

import "time"

// match runs the single incoming order against ledger and returns the
// resulting summary, mutating ledger in place. It is the sole entry point
// for the four OrderSide variants; Market.Place calls it for every
// well-formed request.
func match(ledger *Ledger, incoming Order) Summary {
	summary := Summary{}

	switch incoming.Side {
	case BuyLimit:
		matchBuy(ledger, &incoming, &summary, incoming.Price, false)
	case SellLimit:
		matchSell(ledger, &incoming, &summary, incoming.Price, false)
	case BuyMarket:
		matchBuy(ledger, &incoming, &summary, 0, true)
	case SellMarket:
		matchSell(ledger, &incoming, &summary, 0, true)
	}

	return summary
}

// matchBuy handles BuyLimit (unconditional=false, limit is incoming.Price)
// and BuyMarket (unconditional=true) against resting sells, lowest price
// first. Trade price is the aggressor's (incoming) price for a limit, and
// the resting sell's price for a market order.
func matchBuy(ledger *Ledger, incoming *Order, summary *Summary, limit float32, unconditional bool) {
	levels := ledger.sells.levelsAscending(limit, unconditional)

	priceOf := func(maker Order) float32 {
		if unconditional {
			return maker.Price
		}
		return incoming.Price
	}

	consume(levels, ledger.sells, incoming, summary, priceOf, func(maker Order) (buyer, seller string) {
		return incoming.User, maker.User
	})

	if !unconditional && incoming.Amount >= 1 {
		rest(ledger.buys, incoming, summary)
	}
}

// matchSell handles SellLimit and SellMarket against resting buys, highest
// price first. Trade price is the resting buy's (maker) price for a limit,
// and the incoming order's nominal price for a market order.
func matchSell(ledger *Ledger, incoming *Order, summary *Summary, limit float32, unconditional bool) {
	levels := ledger.buys.levelsDescending(limit, unconditional)

	priceOf := func(maker Order) float32 {
		if unconditional {
			return incoming.Price
		}
		return maker.Price
	}

	consume(levels, ledger.buys, incoming, summary, priceOf, func(maker Order) (buyer, seller string) {
		return maker.User, incoming.User
	})

	if !unconditional && incoming.Amount >= 1 {
		rest(ledger.sells, incoming, summary)
	}
}

// consume sweeps the gathered levels front-to-back (time priority within a
// level), filling incoming against each resting head until either incoming
// is exhausted or the levels run out. Every touched resting order is
// appended to summary.ToUpdate, whether or not it was fully consumed.
func consume(
	levels []*priceLevel,
	makerSide *orderSide,
	incoming *Order,
	summary *Summary,
	priceOf func(maker Order) float32,
	parties func(maker Order) (buyer, seller string),
) {
	for _, lvl := range levels {
		if incoming.Amount < 1 {
			break
		}
		for incoming.Amount >= 1 {
			front := lvl.orders.Front()
			if front == nil {
				break
			}
			entry := front.Value.(*ledgerEntry)
			maker := entry.order

			fill := incoming.Amount
			if maker.Amount < fill {
				fill = maker.Amount
			}

			price := priceOf(maker)
			buyer, seller := parties(maker)

			incoming.Amount -= fill
			entry.order.Amount -= fill

			summary.Transactions = append(summary.Transactions, Transaction{
				Buyer:     buyer,
				Seller:    seller,
				Amount:    fill,
				Price:     price,
				Timestamp: time.Now(),
			})
			summary.ToUpdate = append(summary.ToUpdate, entry.order)

			if entry.order.Amount == 0 {
				lvl.orders.Remove(front)
				delete(makerSide.index, maker.ID)
			}
		}
	}

	makerSide.dropEmptyLevels(levels)
}

// rest inserts the incoming order's residual into its own side and records
// it as the summary's newly-created resting order. Market orders never
// reach here: their residual is discarded silently.
func rest(side *orderSide, incoming *Order, summary *Summary) {
	side.insert(*incoming)
	created := *incoming
	summary.Created = &created
}
