package ports

import (
	"context"

	"github.com/Apurer/storefront/internal/domains/orders/domain"
)

// Filter narrows order listings. Zero values match everything.
type Filter struct {
	UID    string
	Status domain.Status
	Limit  int
}

// Matches reports whether the order passes the filter, ignoring Limit.
func (f Filter) Matches(order *domain.Order) bool {
	if f.UID != "" && order.UID != f.UID {
		return false
	}
	if f.Status != "" && order.Status != f.Status {
		return false
	}
	return true
}

// Repository reads placed orders. Writes only happen inside store transactions.
type Repository interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// ListOrders returns matching orders, newest first.
	ListOrders(ctx context.Context, filter Filter) ([]*domain.Order, error)
}
