package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	"github.com/Apurer/storefront/internal/domains/orders/domain"
	"github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/shared/txstore/memory"
)

type fixture struct {
	store *memory.Store
	cart  *cartapp.Service
	svc   *Service
	now   time.Time
	seq   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	f.cart = cartapp.NewService(f.store)
	f.svc = NewService(f.store, f.store, f.store,
		WithClock(func() time.Time {
			f.now = f.now.Add(time.Second)
			return f.now
		}),
		WithIDGenerator(func() string {
			f.seq++
			return fmt.Sprintf("order-%02d", f.seq)
		}),
	)
	return f
}

func (f *fixture) product(t *testing.T, id string, price int64, stock int, active bool) {
	t.Helper()
	_, err := f.store.SaveProduct(context.Background(), &catalogdomain.Product{
		ID:       id,
		Title:    "Product " + id,
		Price:    decimal.NewFromInt(price),
		HasPrice: true,
		Stock:    stock,
		Active:   active,
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	product, err := f.store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}

func TestPlaceOrder_CommitsOnceThenRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A", 250, 2, true)
	_, err := f.cart.Add(ctx, "u1", "A", 2)
	require.NoError(t, err)

	input := ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{{ProductID: "A", Qty: 2}}, PaymentMethod: "upi"}
	order, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "order-01", order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Product A", order.Items[0].Title)
	assert.Equal(t, 0, f.stock(t, "A"))

	cart, err := f.cart.Items(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	_, err = f.svc.PlaceOrder(ctx, input)
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	assert.EqualError(t, err, "Product A only has 0 left")

	orders, err := f.svc.List(ctx, ports.Filter{UID: "u1"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrder_FailureLeavesEveryProductUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A", 100, 5, true)
	f.product(t, "B", 100, 1, true)
	f.product(t, "C", 100, 5, false)
	_, err := f.cart.Add(ctx, "u1", "A", 1)
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{
		{ProductID: "A", Qty: 2},
		{ProductID: "B", Qty: 3},
	}})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	_, err = f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{
		{ProductID: "A", Qty: 1},
		{ProductID: "C", Qty: 1},
	}})
	require.ErrorIs(t, err, catalogdomain.ErrProductInactive)

	_, err = f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{
		{ProductID: "A", Qty: 1},
		{ProductID: "missing", Qty: 1},
	}})
	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)

	assert.Equal(t, 5, f.stock(t, "A"))
	assert.Equal(t, 1, f.stock(t, "B"))
	cart, err := f.cart.Items(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	orders, err := f.svc.List(ctx, ports.Filter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_RepeatedProductCountsCumulatively(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A", 100, 3, true)

	_, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{
		{ProductID: "A", Qty: 2},
		{ProductID: "A", Qty: 2},
	}})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	assert.Equal(t, 3, f.stock(t, "A"))
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrNoItems)

	_, err = f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{{ProductID: "A", Qty: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{Items: []domain.LineRequest{{ProductID: "A", Qty: 1}}})
	assert.ErrorIs(t, err, domain.ErrMissingUser)
}

func TestUpdateStatusAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A", 100, 10, true)
	f.product(t, "B", 100, 2, true)

	var ids []string
	for i := 0; i < 6; i++ {
		order, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderInput{UID: "u1", Items: []domain.LineRequest{{ProductID: "A", Qty: 1}}})
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	updated, err := f.svc.UpdateStatus(ctx, ids[0], domain.StatusDispatched)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDispatched, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	_, err = f.svc.UpdateStatus(ctx, ids[1], domain.StatusDelivered)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, ids[2], domain.Status("lost"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.UpdateStatus(ctx, "nope", domain.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dashboard, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.TotalProducts)
	assert.Equal(t, 6, dashboard.TotalOrders)
	assert.Equal(t, 4, dashboard.PendingOrders)
	assert.Equal(t, 1, dashboard.DispatchedOrders)
	assert.Equal(t, 1, dashboard.DeliveredOrders)
	assert.Equal(t, 1, dashboard.LowStockProducts)
	require.Len(t, dashboard.RecentOrders, RecentOrdersLimit)
	assert.Equal(t, ids[5], dashboard.RecentOrders[0].ID)

	got, err := f.svc.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDispatched, got.Status)
}

func TestPlaceOrder_SameOrderIDReturnsExistingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A", 100, 5, true)

	input := ports.PlaceOrderInput{UID: "u1", OrderID: "wf-order-1", Items: []domain.LineRequest{{ProductID: "A", Qty: 2}}}
	first, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "wf-order-1", first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, f.stock(t, "A"))

	input.UID = "u2"
	_, err = f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, domain.ErrOrderIDTaken)
}
