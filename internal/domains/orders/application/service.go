package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront/internal/domains/catalog/ports"
	"github.com/Apurer/storefront/internal/domains/orders/domain"
	"github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

// RecentOrdersLimit is the number of orders shown on the dashboard.
const RecentOrdersLimit = 5

// Service places orders and serves the back-office views.
type Service struct {
	store   txstore.Store
	orders  ports.Repository
	catalog catalogports.Repository
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides uuid order ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(store txstore.Store, orders ports.Repository, catalog catalogports.Repository, opts ...Option) *Service {
	s := &Service{
		store:   store,
		orders:  orders,
		catalog: catalog,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates, prices and decrements every requested product, creates
// the pending order and empties the remote cart of the user, all in one
// transaction.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	uid := strings.TrimSpace(input.UID)
	if uid == "" {
		return nil, mapError(domain.ErrMissingUser)
	}
	requests := make([]domain.LineRequest, len(input.Items))
	ids := make([]string, len(input.Items))
	for i, item := range input.Items {
		requests[i] = domain.LineRequest{ProductID: strings.TrimSpace(item.ProductID), Qty: item.Qty}
		ids[i] = requests[i].ProductID
	}
	if err := domain.ValidateRequests(requests); err != nil {
		return nil, mapError(err)
	}

	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		orderID = s.newID()
	}

	var placed *domain.Order
	err := txstore.WithProductLocks(ctx, s.store, ids, func(ctx context.Context, tx txstore.Tx, products map[string]*catalogdomain.Product) error {
		existing, err := tx.GetOrder(ctx, orderID)
		switch {
		case err == nil:
			if existing.UID != uid {
				return domain.ErrOrderIDTaken
			}
			placed = existing
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		lines := make([]domain.Line, 0, len(requests))
		for _, req := range requests {
			product := products[req.ProductID]
			if err := product.EnsurePurchasable(); err != nil {
				return err
			}
			if err := product.EnsureAvailable(req.Qty); err != nil {
				return err
			}
			price, err := product.CurrentPrice()
			if err != nil {
				return err
			}
			lines = append(lines, domain.Line{
				ProductID: product.ID,
				Title:     product.Title,
				Qty:       req.Qty,
				UnitPrice: price,
			})
			product.Stock -= req.Qty
		}

		for _, product := range products {
			if err := tx.PutProduct(ctx, product); err != nil {
				return err
			}
		}

		now := s.now()
		order, err := domain.NewOrder(orderID, uid, lines, input.PaymentMethod, now)
		if err != nil {
			return err
		}
		if err := tx.PutOrder(ctx, order); err != nil {
			return err
		}

		cart, err := tx.ListCartItems(ctx, uid)
		if err != nil {
			return err
		}
		for _, item := range cart {
			if err := tx.DeleteCartItem(ctx, uid, item.ProductID); err != nil {
				return err
			}
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return placed, nil
}

// UpdateStatus moves an order to a new status inside a transaction.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrNotFound
	}
	if !domain.IsValidStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	var updated *domain.Order
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.UpdateStatus(status, s.now()); err != nil {
			return err
		}
		if err := tx.PutOrder(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrNotFound
	}
	return s.orders.GetOrder(ctx, orderID)
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.orders.ListOrders(ctx, filter)
}

// Dashboard aggregates catalog and order counts for the vendor view.
func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx, ports.Filter{})
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
		RecentOrders:  []*domain.Order{},
	}
	for _, product := range products {
		if product.LowStock() {
			dashboard.LowStockProducts++
		}
	}
	for i, order := range orders {
		switch order.Status {
		case domain.StatusPending:
			dashboard.PendingOrders++
		case domain.StatusDispatched:
			dashboard.DispatchedOrders++
		case domain.StatusDelivered:
			dashboard.DeliveredOrders++
		}
		if i < RecentOrdersLimit {
			dashboard.RecentOrders = append(dashboard.RecentOrders, order)
		}
	}
	return dashboard, nil
}

var _ ports.Service = (*Service)(nil)
