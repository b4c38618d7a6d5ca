// Package idempotency makes PlaceOrder safe to retry. It wraps any
// ports.Retail, so the gRPC server and the in-process HTTP handler share the
// same replay rules.
package idempotency

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ports"
)

const (
	placeOrderOperation = "place_order"
	// TTL is how long a key keeps pointing at the order it placed.
	TTL = 24 * time.Hour
)

var _ ports.Retail = (*Retail)(nil)

// Retail places an order at most once per idempotency key. The key is read
// from the context or the gRPC metadata; calls without one pass straight
// through. Every other method is delegated unchanged.
type Retail struct {
	ports.Retail
	cache cache.Cache
}

// Wrap returns retail unchanged when c is nil.
func Wrap(retail ports.Retail, c cache.Cache) ports.Retail {
	if c == nil {
		return retail
	}
	return &Retail{Retail: retail, cache: c}
}

// PlaceOrder replays the order recorded for the key as long as that order
// still exists.
func (r *Retail) PlaceOrder(ctx context.Context, cmd domain.PlaceOrder) (domain.Order, error) {
	idempKey := interceptors.GetMetadataValue(ctx, constants.HeaderXIdempotencyKey)
	if idempKey == "" {
		return r.Retail.PlaceOrder(ctx, cmd)
	}

	key := r.cache.GenerateKey(placeOrderOperation, idempKey)
	if o, ok := r.replay(ctx, key, idempKey); ok {
		return o, nil
	}

	o, err := r.Retail.PlaceOrder(ctx, cmd)
	if err != nil {
		return domain.Order{}, err
	}

	if err := r.cache.Set(ctx, key, o.ID, TTL); err != nil {
		slog.WarnContext(ctx, "failed to record idempotency key",
			"idempotency_key", idempKey, "order_id", o.ID, "error", err)
	}
	return o, nil
}

func (r *Retail) replay(ctx context.Context, key, idempKey string) (domain.Order, bool) {
	orderID, err := r.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed, placing order", "idempotency_key", idempKey, "error", err)
		return domain.Order{}, false
	}
	if orderID == "" {
		return domain.Order{}, false
	}

	o, err := r.Retail.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, false
	}

	slog.InfoContext(ctx, "replaying idempotent order", "idempotency_key", idempKey, "order_id", o.ID)
	return o, true
}
