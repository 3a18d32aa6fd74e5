package ordersvc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types accepted by the upstream service. Quantity is always
// entered positive; the sign effect is applied upstream per type.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementSpoilage   = "SPOILAGE"
	MovementAdjustment = "ADJUSTMENT"
)

func ValidMovementType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementSpoilage, MovementAdjustment:
		return true
	}
	return false
}

type Product struct {
	ProductID         int64      `json:"product_id"`
	ProductName       string     `json:"product_name"`
	CategoryID        *int64     `json:"category_id,omitempty"`
	UnitOfMeasure     string     `json:"unit_of_measure,omitempty"`
	PerishabilityDays *int       `json:"perishability_days,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type Customer struct {
	CustomerID   int64  `json:"customer_id"`
	BusinessName string `json:"business_name"`
	CustomerType string `json:"customer_type,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	IsActive     bool   `json:"is_active"`
}

type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrder is the create payload: header + all lines in one shot.
// Upstream accepts the whole order or none of it.
type CreateOrder struct {
	CustomerID  int64           `json:"customer_id"`
	OrderDate   time.Time       `json:"order_date"`
	OrderStatus string          `json:"order_status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderItems  []OrderItem     `json:"order_items"`
}

type Order struct {
	OrderID     int64           `json:"order_id"`
	CustomerID  int64           `json:"customer_id"`
	OrderDate   time.Time       `json:"order_date"`
	OrderStatus string          `json:"order_status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateMovement struct {
	ProductID    int64           `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReferenceID  *int64          `json:"reference_id,omitempty"`
	MovementDate time.Time       `json:"movement_date"`
}

type Movement struct {
	MovementID   int64           `json:"movement_id"`
	ProductID    int64           `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReferenceID  *int64          `json:"reference_id,omitempty"`
	MovementDate time.Time       `json:"movement_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StockLevel is the upstream's precomputed figure. The reduction rule
// (how IN/OUT/SPOILAGE/ADJUSTMENT net out) is upstream's contract; we only
// display what it returns.
type StockLevel struct {
	ProductID    int64           `json:"product_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	StockIn      decimal.Decimal `json:"stock_in"`
	StockOut     decimal.Decimal `json:"stock_out"`
}
