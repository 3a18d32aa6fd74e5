package events

import (
	"time"

	kafkax "github.com/ariefcatur/go-fooddist-admin.git/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher emits invalidation signals for mutating operations. Delivery is
// fire-and-forget; the read side heals itself on the next event either way.
type Publisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *Publisher) Invalidate(scope string, productIDs []int64, traceID, correlationID string) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventCacheInvalidated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(CacheInvalidatedPayload{Scope: scope, ProductIDs: productIDs}),
	}
	p.Producer.Publish(PartitionKey(scope), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventCacheInvalidated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
