package events

import (
	"encoding/json"
	"time"
)

const (
	EventCacheInvalidated = "CacheInvalidated"
)

// Invalidation scopes. Each mutating operation tags the read-side data it
// made stale; subscribers decide what to refetch.
const (
	ScopeProducts  = "products"
	ScopeOrders    = "orders"
	ScopeMovements = "movements"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "fooddist-admin"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type CacheInvalidatedPayload struct {
	Scope      string  `json:"scope"`
	ProductIDs []int64 `json:"product_ids,omitempty"`
}
