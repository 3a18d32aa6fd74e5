package ordersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/pkg/errors"
)

// API is the subset of the upstream Order/Inventory Service this gateway
// consumes. Handlers and the stock aggregator depend on this, not on
// *Client, so tests can swap in fakes.
type API interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	ListOrders(ctx context.Context) ([]Order, error)
	CreateOrder(ctx context.Context, in CreateOrder) (Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	ListMovements(ctx context.Context) ([]Movement, error)
	CreateMovement(ctx context.Context, in CreateMovement) (Movement, error)
	DeleteMovement(ctx context.Context, movementID int64) error
	GetCurrentStock(ctx context.Context, productID int64) (StockLevel, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ API = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, "listProducts", http.MethodGet, "/products/", nil, &out)
	return out, err
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := c.do(ctx, "listCustomers", http.MethodGet, "/customers/", nil, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, "listOrders", http.MethodGet, "/orders/", nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrder) (Order, error) {
	var out Order
	err := c.do(ctx, "createOrder", http.MethodPost, "/orders/", in, &out)
	return out, err
}

func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	return c.do(ctx, "deleteOrder", http.MethodDelete, fmt.Sprintf("/orders/%d", orderID), nil, nil)
}

func (c *Client) ListMovements(ctx context.Context) ([]Movement, error) {
	var out []Movement
	err := c.do(ctx, "listMovements", http.MethodGet, "/inventory/movements", nil, &out)
	return out, err
}

func (c *Client) CreateMovement(ctx context.Context, in CreateMovement) (Movement, error) {
	var out Movement
	err := c.do(ctx, "createMovement", http.MethodPost, "/inventory/movements", in, &out)
	return out, err
}

func (c *Client) DeleteMovement(ctx context.Context, movementID int64) error {
	return c.do(ctx, "deleteMovement", http.MethodDelete, fmt.Sprintf("/inventory/movements/%d", movementID), nil, nil)
}

func (c *Client) GetCurrentStock(ctx context.Context, productID int64) (StockLevel, error) {
	var out StockLevel
	err := c.do(ctx, "getCurrentStock", http.MethodGet, fmt.Sprintf("/inventory/stock/%d", productID), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "%s: encode request", op)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return errors.Wrapf(err, "%s: build request", op)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errs.ServiceError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.Wrap(errs.ErrNotFound, op)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errs.ServiceError{Op: op, Status: resp.StatusCode, Message: readErrBody(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errs.ServiceError{Op: op, Status: resp.StatusCode, Message: "invalid response body: " + err.Error()}
	}
	return nil
}

// readErrBody surfaces the upstream failure reason verbatim. FastAPI-style
// bodies ({"detail": "..."}) are unwrapped, anything else passes through.
func readErrBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return "no response body"
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(b, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return string(b)
}
