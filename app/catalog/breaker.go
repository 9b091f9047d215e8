package catalog

import (
	"context"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

var _ Client = (*BreakerClient)(nil)

// BreakerClient wraps a catalog Client with a circuit breaker so that a
// failing catalog stops being hammered while feed requests fall back to
// cached enrichment.
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[*Title]
}

// NewBreakerClient creates a circuit-breaker-protected catalog client.
// The breaker opens after a 60% failure rate over at least 10 requests
// in a one-minute window, and probes again after 2 minutes.
func NewBreakerClient(client Client) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[*Title](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Catalog circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &BreakerClient{client: client, cb: cb}
}

func (b *BreakerClient) Lookup(ctx context.Context, mediaKind, subjectID, region string) (*Title, error) {
	return b.cb.Execute(func() (*Title, error) {
		return b.client.Lookup(ctx, mediaKind, subjectID, region)
	})
}
