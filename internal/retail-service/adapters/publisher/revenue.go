package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/mappers"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

const (
	revenueOperation = "revenue"
	revenueKey       = "summary"
)

var _ app.Observer = (*RevenuePublisher)(nil)

// RevenuePublisher keeps the latest revenue summary in the cache as JSON so
// readers outside the service can fetch it without a gRPC call. The key is
// "<service>:revenue:summary" and never expires.
type RevenuePublisher struct {
	cache cache.Cache
}

func NewRevenuePublisher(c cache.Cache) *RevenuePublisher {
	return &RevenuePublisher{cache: c}
}

// Key is the cache key the summary is written under.
func (p *RevenuePublisher) Key() string {
	return p.cache.GenerateKey(revenueOperation, revenueKey)
}

// Observe republishes only on order mutations; product and customer changes
// cannot move revenue.
func (p *RevenuePublisher) Observe(ctx context.Context, m app.Mutation) error {
	if !strings.HasPrefix(m.Operation, "order.") {
		return nil
	}
	return p.Publish(ctx, m.Revenue)
}

func (p *RevenuePublisher) Publish(ctx context.Context, s revenue.Summary) error {
	b, err := json.Marshal(mappers.RevenueToMessage(s))
	if err != nil {
		return fmt.Errorf("publisher: encode revenue: %w", err)
	}
	if err := p.cache.Set(ctx, p.Key(), b, 0); err != nil {
		return fmt.Errorf("publisher: store revenue: %w", err)
	}
	return nil
}

// Latest reads back the last published summary. ok is false when nothing has
// been published yet.
func (p *RevenuePublisher) Latest(ctx context.Context) (s mappers.Revenue, ok bool, err error) {
	raw, err := p.cache.Get(ctx, p.Key())
	if err != nil || raw == "" {
		return mappers.Revenue{}, false, err
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return mappers.Revenue{}, false, fmt.Errorf("publisher: decode revenue: %w", err)
	}
	return s, true, nil
}
