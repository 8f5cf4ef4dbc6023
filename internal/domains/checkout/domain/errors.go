package domain

import (
	"errors"
	"fmt"
	"strings"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
)

var (
	ErrEmptyCart             = errors.New("Your cart is empty")
	ErrPaymentMethodRequired = errors.New("Please select a payment method")
	ErrUnsupportedPayment    = errors.New("payment method is not supported")
	ErrProfileIncomplete     = errors.New("profile incomplete")
	ErrPaymentDeclined       = errors.New("payment declined")
)

// ErrLoginRequired is the checkout flavour of accountsdomain.ErrNotAuthenticated.
var ErrLoginRequired error = loginRequiredError{}

type loginRequiredError struct{}

func (loginRequiredError) Error() string { return "Please login to proceed with checkout" }

func (loginRequiredError) Is(target error) bool {
	return target == accountsdomain.ErrNotAuthenticated
}

// Step names the checkout page the user must complete first.
type Step string

const (
	StepContactDetails  Step = "contact_details"
	StepDeliveryAddress Step = "delivery_address"
)

func (s Step) label() string {
	switch s {
	case StepContactDetails:
		return "contact details"
	case StepDeliveryAddress:
		return "delivery address"
	default:
		return string(s)
	}
}

// ProfileIncompleteError blocks checkout until the named fields are filled in.
type ProfileIncompleteError struct {
	Step    Step
	Missing []string
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf("Please complete your %s (missing %s)", e.Step.label(), strings.Join(e.Missing, ", "))
}

func (e *ProfileIncompleteError) Is(target error) bool {
	return target == ErrProfileIncomplete
}
