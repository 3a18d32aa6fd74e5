package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/draft"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/stock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

// InventoryHandler serves the read-side screens (catalog, orders,
// movements, stock table) and the movement mutations. Every mutation
// publishes a scope-tagged invalidation signal instead of refetching
// anything itself.
type InventoryHandler struct {
	Upstream ordersvc.API
	Stock    *stock.Aggregator
	Signals  draft.Invalidator
}

type createMovementReq struct {
	ProductID    string `json:"product_id"`
	MovementType string `json:"movement_type"`
	Quantity     string `json:"quantity"`
	ReferenceID  string `json:"reference_id"`
	MovementDate string `json:"movement_date"`
}

// stockRow is one line of the stock table. Unknown products render as zero
// but keep known=false so the UI can tell "no data" from "out of stock".
type stockRow struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock string `json:"current_stock"`
	StockIn      string `json:"stock_in"`
	StockOut     string `json:"stock_out"`
	Known        bool   `json:"known"`
}

func (h *InventoryHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/customers", h.listCustomers)
	r.Get("/orders", h.listOrders)
	r.Delete("/orders/{id}", h.deleteOrder)
	r.Get("/movements", h.listMovements)
	r.Post("/movements", h.createMovement)
	r.Delete("/movements/{id}", h.deleteMovement)
	r.Get("/stock", h.stockLevels)
}

func (h *InventoryHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r, 3*time.Second)
	defer cancel()

	ps, err := h.Upstream.ListProducts(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *InventoryHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r, 3*time.Second)
	defer cancel()

	cs, err := h.Upstream.ListCustomers(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *InventoryHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r, 3*time.Second)
	defer cancel()

	os, err := h.Upstream.ListOrders(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *InventoryHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order id must be numeric"})
		return
	}

	ctx, cancel := timeoutCtx(r, 5*time.Second)
	defer cancel()

	if err := h.Upstream.DeleteOrder(ctx, id); err != nil {
		writeErr(w, err)
		return
	}
	h.Signals.Invalidate(events.ScopeOrders, nil, middleware.GetReqID(r.Context()), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r, 3*time.Second)
	defer cancel()

	ms, err := h.Upstream.ListMovements(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *InventoryHandler) createMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	in, err := coerceMovement(req)
	if err != nil {
		writeErr(w, err)
		return
	}

	ctx, cancel := timeoutCtx(r, 5*time.Second)
	defer cancel()

	mv, err := h.Upstream.CreateMovement(ctx, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.Signals.Invalidate(events.ScopeMovements, []int64{in.ProductID},
		middleware.GetReqID(r.Context()), strconv.FormatInt(mv.MovementID, 10))
	writeJSON(w, http.StatusCreated, mv)
}

func (h *InventoryHandler) deleteMovement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "movement id must be numeric"})
		return
	}

	ctx, cancel := timeoutCtx(r, 5*time.Second)
	defer cancel()

	if err := h.Upstream.DeleteMovement(ctx, id); err != nil {
		writeErr(w, err)
		return
	}
	h.Signals.Invalidate(events.ScopeMovements, nil, middleware.GetReqID(r.Context()), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// stockLevels renders the stock table. The product list fetch is the only
// blocking failure; individual stock gaps render as unknown rows.
func (h *InventoryHandler) stockLevels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r, 10*time.Second)
	defer cancel()

	products, err := h.Upstream.ListProducts(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	levels := h.Stock.Load(ctx, products)

	rows := make([]stockRow, 0, len(products))
	for _, p := range products {
		row := stockRow{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			CurrentStock: decimal.Zero.StringFixed(2),
			StockIn:      decimal.Zero.StringFixed(2),
			StockOut:     decimal.Zero.StringFixed(2),
		}
		if lvl, ok := levels[p.ProductID]; ok {
			row.CurrentStock = lvl.CurrentStock.StringFixed(2)
			row.StockIn = lvl.StockIn.StringFixed(2)
			row.StockOut = lvl.StockOut.StringFixed(2)
			row.Known = true
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}

func coerceMovement(req createMovementReq) (ordersvc.CreateMovement, error) {
	if req.ProductID == "" {
		return ordersvc.CreateMovement{}, errs.Validation("product_id", "required")
	}
	pid, err := strconv.ParseInt(req.ProductID, 10, 64)
	if err != nil {
		return ordersvc.CreateMovement{}, errs.Validation("product_id", "must be numeric")
	}
	if !ordersvc.ValidMovementType(req.MovementType) {
		return ordersvc.CreateMovement{}, errs.Validation("movement_type", "must be IN, OUT, SPOILAGE or ADJUSTMENT")
	}
	if req.Quantity == "" {
		return ordersvc.CreateMovement{}, errs.Validation("quantity", "required")
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return ordersvc.CreateMovement{}, errs.Validation("quantity", "must be numeric")
	}
	if qty.Sign() <= 0 {
		// quantity selalu positif; arah efek ditentukan movement_type
		return ordersvc.CreateMovement{}, errs.Validation("quantity", "must be positive")
	}

	in := ordersvc.CreateMovement{
		ProductID:    pid,
		MovementType: req.MovementType,
		Quantity:     qty,
		MovementDate: time.Now().UTC(),
	}
	if req.ReferenceID != "" {
		ref, err := strconv.ParseInt(req.ReferenceID, 10, 64)
		if err != nil {
			return ordersvc.CreateMovement{}, errs.Validation("reference_id", "must be numeric")
		}
		in.ReferenceID = &ref
	}
	if req.MovementDate != "" {
		t, err := parseDateTime(req.MovementDate)
		if err != nil {
			return ordersvc.CreateMovement{}, err
		}
		in.MovementDate = t
	}
	return in, nil
}
