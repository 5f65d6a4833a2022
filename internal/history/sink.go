package history

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSink forwards every recorded entry to an external archival endpoint
// as a fire-and-forget POST. A failed delivery is logged and dropped —
// the archive itself is the durable copy; the endpoint is best-effort.
type HTTPSink struct {
	client   *resty.Client
	endpoint string
}

// NewHTTPSink returns a Sink that posts each entry's JSON encoding to
// endpoint. timeout bounds a single POST; it does not retry.
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	client := resty.New().SetTimeout(timeout)
	return &HTTPSink{client: client, endpoint: endpoint}
}

type entryPayload struct {
	Item      string    `json:"item"`
	Buyer     string    `json:"buyer"`
	Seller    string    `json:"seller"`
	Amount    uint32    `json:"amount"`
	Price     float32   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Send posts entry in the background. It never blocks the caller and
// never returns an error; failures are logged via logDroppedSend.
func (s *HTTPSink) Send(entry Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.client.GetClient().Timeout)
		defer cancel()

		payload := entryPayload{
			Item:      entry.Item,
			Buyer:     entry.Transaction.Buyer,
			Seller:    entry.Transaction.Seller,
			Amount:    entry.Transaction.Amount,
			Price:     entry.Transaction.Price,
			Timestamp: entry.Transaction.Timestamp,
		}

		_, err := s.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post(s.endpoint)
		if err != nil {
			logDroppedSend(ctx, entry.Item, err)
		}
	}()
}
