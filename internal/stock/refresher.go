package stock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	kafkax "github.com/ariefcatur/go-fooddist-admin.git/internal/kafka"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Dedup remembers processed event ids so a redelivered event is skipped.
// Mark is called only after a successful rebuild: a failed rebuild must
// stay retryable.
type Dedup interface {
	Seen(ctx context.Context, eventID string) bool
	Mark(ctx context.Context, eventID string)
}

// RedisDedup backs Dedup with redis keys under a per-service prefix.
type RedisDedup struct {
	R       *redis.Client
	Service string
}

var _ Dedup = (*RedisDedup)(nil)

func (d *RedisDedup) Seen(ctx context.Context, eventID string) bool {
	exists, _ := redisx.Exists(ctx, d.R, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID))
	return exists
}

func (d *RedisDedup) Mark(ctx context.Context, eventID string) {
	_ = d.R.Set(ctx, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), "1", redisx.TTLDedup).Err()
}

// Refresher is the read-side subscriber: it consumes invalidation events
// and rebuilds the stock cache wholesale, decoupling refresh timing from
// the mutating handlers.
type Refresher struct {
	Catalog ordersvc.API
	Agg     *Aggregator
	Dedup   Dedup
}

// HandleInvalidated: dipasang sebagai handler consumer.
func (r *Refresher) HandleInvalidated(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventCacheInvalidated {
		return nil
	} // ignore

	// 2) dedup via event_id
	if r.Dedup.Seen(ctx, env.EventID) {
		return nil
	}

	// 3) decode payload
	p, err := kafkax.UnwrapPayload[events.CacheInvalidatedPayload](env.Payload)
	if err != nil {
		return err
	}

	// Only movement/product mutations shift the stock aggregate; order
	// events matter too since a delivered order produces OUT movements
	// upstream. Rebuild on everything except a pure customer change.
	switch p.Scope {
	case events.ScopeMovements, events.ScopeProducts, events.ScopeOrders:
	default:
		return nil
	}

	// targeted drop first: readers fall through to upstream for the
	// products the event named even if the rebuild below is slow
	if len(p.ProductIDs) > 0 && r.Agg.Cache != nil {
		r.Agg.Cache.Invalidate(ctx, p.ProductIDs...)
	}

	products, err := r.Catalog.ListProducts(ctx)
	if err != nil {
		return err // no commit; consumer will redeliver
	}
	levels := r.Agg.Refresh(ctx, products)
	r.Dedup.Mark(ctx, env.EventID)
	logrus.WithFields(logrus.Fields{
		"scope":    p.Scope,
		"products": len(products),
		"resolved": len(levels),
		"trace_id": env.TraceID,
	}).Info("stock cache rebuilt")
	return nil
}
