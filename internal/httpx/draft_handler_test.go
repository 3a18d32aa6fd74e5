package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/draft"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/stock"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	ordersvc.API

	orderCalls    int
	movementCalls int
	failStockFor  map[int64]bool
}

func (f *fakeUpstream) CreateOrder(ctx context.Context, in ordersvc.CreateOrder) (ordersvc.Order, error) {
	f.orderCalls++
	return ordersvc.Order{OrderID: 42, CustomerID: in.CustomerID, TotalAmount: in.TotalAmount}, nil
}

func (f *fakeUpstream) CreateMovement(ctx context.Context, in ordersvc.CreateMovement) (ordersvc.Movement, error) {
	f.movementCalls++
	return ordersvc.Movement{MovementID: 9, ProductID: in.ProductID, MovementType: in.MovementType, Quantity: in.Quantity}, nil
}

func (f *fakeUpstream) DeleteMovement(ctx context.Context, movementID int64) error {
	f.movementCalls++
	return nil
}

func (f *fakeUpstream) ListProducts(ctx context.Context) ([]ordersvc.Product, error) {
	return []ordersvc.Product{
		{ProductID: 1, ProductName: "Tomatoes"},
		{ProductID: 2, ProductName: "Yams"},
	}, nil
}

func (f *fakeUpstream) GetCurrentStock(ctx context.Context, productID int64) (ordersvc.StockLevel, error) {
	if f.failStockFor[productID] {
		return ordersvc.StockLevel{}, &errs.ServiceError{Op: "getCurrentStock", Message: "timeout"}
	}
	return ordersvc.StockLevel{ProductID: productID, CurrentStock: decimal.NewFromInt(productID * 5)}, nil
}

type fakeSignals struct {
	scopes []string
}

func (f *fakeSignals) Invalidate(scope string, productIDs []int64, traceID, correlationID string) {
	f.scopes = append(f.scopes, scope)
}

func setup(t *testing.T) (*chi.Mux, *fakeUpstream, *fakeSignals) {
	t.Helper()
	up := &fakeUpstream{}
	sig := &fakeSignals{}
	r := NewRouter()
	dh := &DraftHandler{Drafts: &draft.Service{Store: draft.NewStore(), Upstream: up, Signals: sig}}
	dh.Register(r)
	ih := &InventoryHandler{Upstream: up, Stock: &stock.Aggregator{Fetcher: up}, Signals: sig}
	ih.Register(r)
	return r, up, sig
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDraftComposeAndSubmitFlow(t *testing.T) {
	r, up, sig := setup(t)

	rec := do(t, r, http.MethodPost, "/drafts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		DraftID string `json:"draft_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.DraftID
	require.NotEmpty(t, id)

	rec = do(t, r, http.MethodPatch, "/drafts/"+id, `{"customer_id":"12","order_date":"2025-11-03T09:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/drafts/"+id+"/lines", `{"product_id":"5","quantity":"3","unit_price":"12.00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, r, http.MethodPost, "/drafts/"+id+"/lines", `{"product_id":"7","quantity":"1","unit_price":"4.50"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var v draft.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Len(t, v.Lines, 2)
	assert.Equal(t, "40.50", v.TotalAmount)

	rec = do(t, r, http.MethodPost, "/drafts/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, up.orderCalls)
	assert.Equal(t, []string{events.ScopeOrders}, sig.scopes)

	rec = do(t, r, http.MethodGet, "/drafts/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddLineRejectsBadInput(t *testing.T) {
	r, up, _ := setup(t)

	rec := do(t, r, http.MethodPost, "/drafts", "")
	var created struct {
		DraftID string `json:"draft_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(t, r, http.MethodPost, "/drafts/"+created.DraftID+"/lines", `{"product_id":"5","quantity":"-1","unit_price":"2.00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodDelete, "/drafts/"+created.DraftID+"/lines/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/drafts/"+created.DraftID+"/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, up.orderCalls)
}

func TestCreateMovementPublishesInvalidation(t *testing.T) {
	r, up, sig := setup(t)

	rec := do(t, r, http.MethodPost, "/movements", `{"product_id":"3","movement_type":"IN","quantity":"25","movement_date":"2025-11-03T10:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, up.movementCalls)
	assert.Equal(t, []string{events.ScopeMovements}, sig.scopes)
}

func TestCreateMovementRejectsBadType(t *testing.T) {
	r, up, sig := setup(t)

	rec := do(t, r, http.MethodPost, "/movements", `{"product_id":"3","movement_type":"TRANSFER","quantity":"25"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, up.movementCalls)
	assert.Empty(t, sig.scopes)
}

func TestDeleteMovementPublishesInvalidation(t *testing.T) {
	r, _, sig := setup(t)

	rec := do(t, r, http.MethodDelete, "/movements/9", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{events.ScopeMovements}, sig.scopes)
}

func TestStockTableRendersGapsAsUnknownZero(t *testing.T) {
	r, up, _ := setup(t)
	up.failStockFor = map[int64]bool{2: true}

	rec := do(t, r, http.MethodGet, "/stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []stockRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	byID := map[int64]stockRow{}
	for _, row := range rows {
		byID[row.ProductID] = row
	}
	assert.True(t, byID[1].Known)
	assert.Equal(t, "5.00", byID[1].CurrentStock)
	assert.False(t, byID[2].Known)
	assert.Equal(t, "0.00", byID[2].CurrentStock)
}
