package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is one of the methods offered at checkout.
type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentNetbanking PaymentMethod = "netbanking"
	PaymentUPI        PaymentMethod = "upi"
)

// ParsePaymentMethod accepts the method names case-insensitively.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	switch method {
	case "":
		return "", ErrPaymentMethodRequired
	case PaymentCard, PaymentNetbanking, PaymentUPI:
		return method, nil
	default:
		return "", ErrUnsupportedPayment
	}
}

// PaymentIntent is what the authoriser is asked to approve.
type PaymentIntent struct {
	UID       string
	Method    PaymentMethod
	Amount    decimal.Decimal
	Reference string
}

// Authorization is an approved payment.
type Authorization struct {
	ID           string
	Method       PaymentMethod
	Amount       decimal.Decimal
	AuthorizedAt time.Time
}
