package draft

import (
	"strconv"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/errs"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

type State string

const (
	StateEmpty      State = "EMPTY"
	StateComposing  State = "COMPOSING"
	StateSubmitting State = "SUBMITTING"
)

var validNext = map[State]map[State]bool{
	StateEmpty:      {StateComposing: true, StateEmpty: true},
	StateComposing:  {StateSubmitting: true, StateEmpty: true},
	StateSubmitting: {StateEmpty: true, StateComposing: true},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

// Line is one product/quantity/price tuple in the draft. LineTotal is fixed
// at add time and reused verbatim on removal, so removing and re-adding the
// same line restores the prior total exactly.
type Line struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Draft is an order under construction. It has no persisted identity until
// the upstream service accepts it; one composition session owns it
// exclusively. All money/quantity arithmetic stays in decimal; rounding to
// 2dp happens only when rendering.
type Draft struct {
	CustomerID *int64
	OrderDate  time.Time
	Status     string
	Lines      []Line
	Total      decimal.Decimal

	state State
}

func New() *Draft {
	return &Draft{
		OrderDate: time.Now().UTC(),
		Status:    StatusPending,
		Total:     decimal.Zero,
		state:     StateEmpty,
	}
}

func (d *Draft) State() State { return d.state }

func (d *Draft) transition(to State) error {
	if !CanTransition(d.state, to) {
		return errs.Validation("draft", "invalid transition "+string(d.state)+" -> "+string(to))
	}
	d.state = to
	return nil
}

// guardMutable: draft tidak boleh diubah selagi submit berjalan.
func (d *Draft) guardMutable() error {
	if d.state == StateSubmitting {
		return errs.Validation("draft", "submission in progress")
	}
	return nil
}

// AddLine coerces user-entered text and appends a line. The same product
// may appear on multiple lines; lines are never merged.
func (d *Draft) AddLine(productID, quantity, unitPrice string) error {
	if err := d.guardMutable(); err != nil {
		return err
	}

	pid, err := parseID("product_id", productID)
	if err != nil {
		return err
	}
	qty, err := parseDecimal("quantity", quantity)
	if err != nil {
		return err
	}
	if qty.Sign() <= 0 {
		return errs.Validation("quantity", "must be positive")
	}
	price, err := parseDecimal("unit_price", unitPrice)
	if err != nil {
		return err
	}
	if price.Sign() < 0 {
		return errs.Validation("unit_price", "must not be negative")
	}

	line := Line{
		ProductID: pid,
		Quantity:  qty,
		UnitPrice: price,
		LineTotal: qty.Mul(price),
	}
	d.Lines = append(d.Lines, line)
	d.Total = d.Total.Add(line.LineTotal)
	d.state = StateComposing
	return nil
}

// RemoveLine drops the line at index and decrements the total by that
// line's stored LineTotal, never by a recomputed value.
func (d *Draft) RemoveLine(index int) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.Lines) {
		return errors.Wrapf(errs.ErrIndexOutOfRange, "line %d of %d", index, len(d.Lines))
	}
	d.Total = d.Total.Sub(d.Lines[index].LineTotal)
	d.Lines = append(d.Lines[:index], d.Lines[index+1:]...)
	return nil
}

func (d *Draft) SetCustomer(raw string) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	id, err := parseID("customer_id", raw)
	if err != nil {
		return err
	}
	d.CustomerID = &id
	d.state = StateComposing
	return nil
}

func (d *Draft) SetStatus(status string) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	switch status {
	case StatusPending, StatusDelivered, StatusCancelled:
		d.Status = status
		return nil
	default:
		return errs.Validation("order_status", "must be pending, delivered or cancelled")
	}
}

func (d *Draft) SetOrderDate(t time.Time) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	d.OrderDate = t
	return nil
}

// Reset discards the draft unconditionally.
func (d *Draft) Reset() {
	*d = *New()
}

// ToCreateOrder validates the draft for submission and builds the upstream
// payload. Customer and at least one line are required; the check happens
// here so an invalid draft never reaches the wire.
func (d *Draft) ToCreateOrder() (ordersvc.CreateOrder, error) {
	if d.CustomerID == nil {
		return ordersvc.CreateOrder{}, errs.Validation("customer_id", "required")
	}
	if len(d.Lines) == 0 {
		return ordersvc.CreateOrder{}, errs.Validation("order_items", "at least one line required")
	}
	items := make([]ordersvc.OrderItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		items = append(items, ordersvc.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return ordersvc.CreateOrder{
		CustomerID:  *d.CustomerID,
		OrderDate:   d.OrderDate,
		OrderStatus: d.Status,
		TotalAmount: d.Total,
		OrderItems:  items,
	}, nil
}

// LineView/View are the display shapes: amounts rounded to 2dp as strings,
// exact decimals stay internal.
type LineView struct {
	ProductID int64  `json:"product_id"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type View struct {
	CustomerID  *int64     `json:"customer_id,omitempty"`
	OrderDate   time.Time  `json:"order_date"`
	OrderStatus string     `json:"order_status"`
	Lines       []LineView `json:"order_items"`
	TotalAmount string     `json:"total_amount"`
	State       State      `json:"state"`
}

func (d *Draft) View() View {
	lines := make([]LineView, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, LineView{
			ProductID: l.ProductID,
			Quantity:  l.Quantity.String(),
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return View{
		CustomerID:  d.CustomerID,
		OrderDate:   d.OrderDate,
		OrderStatus: d.Status,
		Lines:       lines,
		TotalAmount: d.Total.StringFixed(2),
		State:       d.state,
	}
}

func parseID(field, raw string) (int64, error) {
	if raw == "" {
		return 0, errs.Validation(field, "required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Validation(field, "must be numeric")
	}
	return id, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errs.Validation(field, "required")
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.Validation(field, "must be numeric")
	}
	return v, nil
}
