package stock

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	ordersvc.API

	calls int
	fail  bool
	prods []ordersvc.Product
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]ordersvc.Product, error) {
	f.calls++
	if f.fail {
		return nil, &errs.ServiceError{Op: "listProducts", Message: "upstream down"}
	}
	return f.prods, nil
}

type fakeDedup struct {
	seen  map[string]bool
	marks []string
}

func (d *fakeDedup) Seen(ctx context.Context, eventID string) bool { return d.seen[eventID] }
func (d *fakeDedup) Mark(ctx context.Context, eventID string)      { d.marks = append(d.marks, eventID) }

func invalidatedMsg(t *testing.T, eventID, scope string, productIDs ...int64) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.CacheInvalidatedPayload{Scope: scope, ProductIDs: productIDs})
	require.NoError(t, err)
	env := events.Envelope{
		EventID:      eventID,
		EventType:    events.EventCacheInvalidated,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "fooddist-admin",
		Payload:      payload,
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func setupRefresher(prods ...int64) (*Refresher, *fakeFetcher, *fakeCatalog, *fakeCache, *fakeDedup) {
	f := &fakeFetcher{}
	cat := &fakeCatalog{prods: products(prods...)}
	c := newFakeCache()
	d := &fakeDedup{seen: map[string]bool{}}
	r := &Refresher{
		Catalog: cat,
		Agg:     &Aggregator{Fetcher: f, Cache: c},
		Dedup:   d,
	}
	return r, f, cat, c, d
}

func TestHandleInvalidatedRebuildsCache(t *testing.T) {
	r, f, cat, c, d := setupRefresher(1, 2)

	err := r.HandleInvalidated(context.Background(), invalidatedMsg(t, "ev-1", events.ScopeMovements))
	require.NoError(t, err)

	assert.Equal(t, 1, cat.calls)
	assert.Equal(t, 2, f.calls)
	lvl, ok := c.Get(context.Background(), 2)
	require.True(t, ok)
	assert.True(t, lvl.CurrentStock.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, []string{"ev-1"}, d.marks)
}

func TestHandleInvalidatedSkipsDuplicateEvent(t *testing.T) {
	r, f, cat, _, d := setupRefresher(1, 2)
	d.seen["ev-1"] = true

	err := r.HandleInvalidated(context.Background(), invalidatedMsg(t, "ev-1", events.ScopeMovements))
	require.NoError(t, err)

	// redelivery of a processed event touches nothing
	assert.Equal(t, 0, cat.calls)
	assert.Equal(t, 0, f.calls)
	assert.Empty(t, d.marks)
}

func TestHandleInvalidatedDropsNamedProductsFirst(t *testing.T) {
	r, _, _, c, _ := setupRefresher(1, 3)
	c.Put(context.Background(), ordersvc.StockLevel{ProductID: 3, CurrentStock: decimal.NewFromInt(99)})

	err := r.HandleInvalidated(context.Background(), invalidatedMsg(t, "ev-2", events.ScopeMovements, 3))
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, c.dropped)
	lvl, ok := c.Get(context.Background(), 3)
	require.True(t, ok)
	assert.True(t, lvl.CurrentStock.Equal(decimal.NewFromInt(30)))
}

func TestHandleInvalidatedIgnoresOtherScopes(t *testing.T) {
	r, f, cat, _, d := setupRefresher(1)

	err := r.HandleInvalidated(context.Background(), invalidatedMsg(t, "ev-3", "customers"))
	require.NoError(t, err)

	assert.Equal(t, 0, cat.calls)
	assert.Equal(t, 0, f.calls)
	assert.Empty(t, d.marks)
}

func TestHandleInvalidatedIgnoresForeignEventType(t *testing.T) {
	r, f, cat, _, _ := setupRefresher(1)

	env := events.Envelope{EventID: "ev-4", EventType: "OrderPlaced", EventVersion: 1}
	b, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, r.HandleInvalidated(context.Background(), kafkago.Message{Value: b}))
	assert.Equal(t, 0, cat.calls)
	assert.Equal(t, 0, f.calls)
}

func TestHandleInvalidatedMalformedEnvelope(t *testing.T) {
	r, _, _, _, _ := setupRefresher(1)

	err := r.HandleInvalidated(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestHandleInvalidatedCatalogFailureStaysRetryable(t *testing.T) {
	r, f, cat, _, d := setupRefresher(1, 2)
	cat.fail = true
	msg := invalidatedMsg(t, "ev-5", events.ScopeOrders)

	err := r.HandleInvalidated(context.Background(), msg)
	require.Error(t, err)
	assert.Empty(t, d.marks) // not marked, so the redelivery is not deduped

	cat.fail = false
	require.NoError(t, r.HandleInvalidated(context.Background(), msg))
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, []string{"ev-5"}, d.marks)
}
