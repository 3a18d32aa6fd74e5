package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/draft"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DraftHandler exposes the order-composition workflow. Fields arrive as the
// operator typed them (strings) and are coerced/validated before anything
// reaches the upstream service.
type DraftHandler struct {
	Drafts *draft.Service
}

type updateDraftReq struct {
	CustomerID  string `json:"customer_id"`
	OrderStatus string `json:"order_status"`
	OrderDate   string `json:"order_date"`
}

type addLineReq struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func (h *DraftHandler) Register(r *chi.Mux) {
	r.Post("/drafts", h.create)
	r.Get("/drafts/{id}", h.get)
	r.Patch("/drafts/{id}", h.update)
	r.Post("/drafts/{id}/lines", h.addLine)
	r.Delete("/drafts/{id}/lines/{index}", h.removeLine)
	r.Post("/drafts/{id}/submit", h.submit)
	r.Delete("/drafts/{id}", h.cancel)
}

func (h *DraftHandler) create(w http.ResponseWriter, r *http.Request) {
	id, v := h.Drafts.Create()
	writeJSON(w, http.StatusCreated, map[string]any{"draft_id": id, "draft": v})
}

func (h *DraftHandler) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Drafts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *DraftHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateDraftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	var orderDate *time.Time
	if req.OrderDate != "" {
		t, err := parseDateTime(req.OrderDate)
		if err != nil {
			writeErr(w, err)
			return
		}
		orderDate = &t
	}
	v, err := h.Drafts.Update(chi.URLParam(r, "id"), req.CustomerID, req.OrderStatus, orderDate)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *DraftHandler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	v, err := h.Drafts.AddLine(chi.URLParam(r, "id"), req.ProductID, req.Quantity, req.UnitPrice)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *DraftHandler) removeLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line index"})
		return
	}
	v, err := h.Drafts.RemoveLine(chi.URLParam(r, "id"), index)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *DraftHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r, 5*time.Second)
	defer cancel()

	ord, err := h.Drafts.Submit(ctx, chi.URLParam(r, "id"), middleware.GetReqID(r.Context()))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ord)
}

func (h *DraftHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.Drafts.Cancel(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// parseDateTime accepts RFC3339 plus the datetime-local shape the admin
// forms post ("2006-01-02T15:04").
func parseDateTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Validation("order_date", "unrecognized datetime")
}
