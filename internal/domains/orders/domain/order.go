package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrNoItems         = errors.New("no items to order")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrMissingUser     = errors.New("order must belong to a user")
	ErrOrderIDTaken    = errors.New("order id belongs to another user")
)

// LineRequest is one requested product and quantity.
type LineRequest struct {
	ProductID string
	Qty       int
}

// Line is a priced order line captured when the order was placed.
type Line struct {
	ProductID string
	Title     string
	Qty       int
	UnitPrice decimal.Decimal
}

// Subtotal is UnitPrice times Qty.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Order is immutable after placement except for its status.
type Order struct {
	ID            string
	UID           string
	Items         []Line
	Total         decimal.Decimal
	Status        Status
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder builds a pending order and derives its total from the lines.
func NewOrder(id, uid string, lines []Line, paymentMethod string, now time.Time) (*Order, error) {
	order := &Order{
		ID:            id,
		UID:           uid,
		Items:         append([]Line(nil), lines...),
		Status:        StatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	order.Total = total
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.UID == "" {
		return ErrMissingUser
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, line := range o.Items {
		if line.ProductID == "" {
			return ErrInvalidProduct
		}
		if line.Qty <= 0 {
			return ErrInvalidQuantity
		}
	}
	if !IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus moves the order to a known status.
func (o *Order) UpdateStatus(status Status, now time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Line(nil), o.Items...)
	return &clone
}

func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusDispatched, StatusDelivered:
		return true
	default:
		return false
	}
}

// ValidateRequests checks a placement request before any store access.
func ValidateRequests(items []LineRequest) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if item.ProductID == "" {
			return ErrInvalidProduct
		}
		if item.Qty <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
