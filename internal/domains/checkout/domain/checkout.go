package domain

import (
	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

// Readiness is the state checkout proceeds from once every precondition holds.
type Readiness struct {
	Profile *accountsdomain.Profile
	Items   []*cartdomain.RemoteItem
	Summary cartdomain.Summary
}

// Lines converts the remote cart into order line requests.
func (r *Readiness) Lines() []ordersdomain.LineRequest {
	lines := make([]ordersdomain.LineRequest, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, ordersdomain.LineRequest{ProductID: item.ProductID, Qty: item.Qty})
	}
	return lines
}

// Confirmation is the result of a completed checkout.
type Confirmation struct {
	Order   *ordersdomain.Order
	Payment *Authorization
	// Replayed is true when the idempotency key matched an earlier checkout.
	Replayed bool
}
