package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountsmemory "github.com/Apurer/storefront/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/Apurer/storefront/internal/domains/accounts/application"
	cartmapper "github.com/Apurer/storefront/internal/domains/cart/adapters/http/mapper"
	cartmemory "github.com/Apurer/storefront/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	catalogapp "github.com/Apurer/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	checkoutmemory "github.com/Apurer/storefront/internal/domains/checkout/adapters/memory"
	"github.com/Apurer/storefront/internal/domains/checkout/adapters/payment"
	"github.com/Apurer/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/storefront/internal/domains/checkout/application"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/storefront/internal/shared/errors"
	"github.com/Apurer/storefront/internal/shared/txstore/memory"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	carts  *cartapp.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	accounts := accountsapp.NewService(accountsmemory.NewProfileRepository(), accountsmemory.NewSessionStore(0))
	catalog := catalogapp.NewService(store)
	cart := cartapp.NewService(store)
	guests := cartmemory.NewGuestStore(0)
	sessions := cartapp.NewSessions(cartapp.Dependencies{
		Remote: cart,
		Guests: guests,
		Merger: cartapp.NewMerger(cart, guests, store),
	})
	t.Cleanup(sessions.Close)
	orders := ordersapp.NewService(store, store, store)
	checkout := checkoutapp.NewService(accounts, cart, orders,
		workflows.NewInlineOrderPlacer(payment.NewSimulated(), orders),
		checkoutapp.WithIdempotencyStore(checkoutmemory.NewIdempotencyStore()),
	)

	handlers := ApiHandleFunctions{
		SessionAPI:  NewSessionAPI(accounts, sessions, true),
		ProductAPI:  NewProductAPI(catalog),
		CartAPI:     NewCartAPI(sessions, catalog),
		ProfileAPI:  NewProfileAPI(accounts),
		CheckoutAPI: NewCheckoutAPI(checkout, sessions),
		OrderAPI:    NewOrderAPI(orders),
	}
	return &testServer{
		router: NewRouterWithGinEngine(gin.New(), handlers, accounts),
		store:  store,
		carts:  cart,
	}
}

func (s *testServer) product(t *testing.T, id string, price int64, stock int) {
	t.Helper()
	_, err := s.store.SaveProduct(context.Background(), &catalogdomain.Product{
		ID: id, Title: "Product " + id, Price: decimal.NewFromInt(price), HasPrice: true, Stock: stock, Active: true,
	})
	require.NoError(t, err)
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signIn(t *testing.T, uid, role, guestKey string) string {
	t.Helper()
	headers := map[string]string{}
	if guestKey != "" {
		headers[HeaderGuestCart] = guestKey
	}
	rec := s.do(t, http.MethodPost, "/v1/sessions", SignInRequest{UID: uid, Email: uid + "@example.com", Role: role}, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartmapper.Cart {
	t.Helper()
	var cart cartmapper.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	return cart
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestCart_GuestCartMergesOnSignIn(t *testing.T) {
	s := newTestServer(t)
	s.product(t, "A", 100, 5)
	guest := map[string]string{HeaderGuestCart: "guest-1"}

	rec := s.do(t, http.MethodPost, "/v1/cart/items", cartmapper.AddItem{ProductID: "A", Quantity: 2}, guest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "250.00", cart.Summary.Total)

	token := s.signIn(t, "u1", "", "guest-1")

	rec = s.do(t, http.MethodGet, "/v1/cart", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	remote, err := s.carts.Items(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, 2, remote[0].Qty)
}

func TestCart_RequiresSessionKey(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decodeProblem(t, rec)
}

func TestCart_InsufficientStockProblem(t *testing.T) {
	s := newTestServer(t)
	s.product(t, "A", 100, 1)
	token := s.signIn(t, "u1", "", "")

	rec := s.do(t, http.MethodPost, "/v1/cart/items", cartmapper.AddItem{ProductID: "A", Quantity: 3}, bearer(token))
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeInsufficientStock, problem.Type)
	assert.Equal(t, "Product A only has 1 left", problem.Detail)
	assert.Equal(t, "A", problem.Extensions["productId"])
	assert.EqualValues(t, 1, problem.Extensions["available"])

	rec = s.do(t, http.MethodPut, "/v1/cart/items/B", map[string]int{"quantity": 1}, bearer(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_GuestGetsLoginPrompt(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/checkout", CheckoutRequest{PaymentMethod: "card"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please login to proceed with checkout", decodeProblem(t, rec).Detail)
}

func TestCheckout_IncompleteProfile(t *testing.T) {
	s := newTestServer(t)
	s.product(t, "A", 100, 5)
	token := s.signIn(t, "u1", "", "")
	rec := s.do(t, http.MethodPost, "/v1/cart/items", cartmapper.AddItem{ProductID: "A"}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPut, "/v1/profile", Profile{Name: "Asha", Email: "asha@example.com", Phone: "98765"}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/checkout/readiness", nil, bearer(token))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeProfileIncomplete, problem.Type)
	assert.Equal(t, "delivery_address", problem.Extensions["step"])
}

func TestCheckout_PlacesOrderOnceAndEmptiesCart(t *testing.T) {
	s := newTestServer(t)
	s.product(t, "A", 400, 3)
	token := s.signIn(t, "u1", "", "")
	rec := s.do(t, http.MethodPut, "/v1/profile", Profile{
		Name: "Asha", Email: "asha@example.com", Phone: "98765",
		Address: Address{Street: "1 Main Rd", City: "Pune", State: "MH", Pincode: "411001"},
	}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/v1/cart/items", cartmapper.AddItem{ProductID: "A", Quantity: 3}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/checkout", nil, bearer(token))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please select a payment method", decodeProblem(t, rec).Detail)

	headers := bearer(token)
	headers[HeaderIdempotencyKey] = "key-1"
	rec = s.do(t, http.MethodPost, "/v1/checkout", CheckoutRequest{PaymentMethod: "card"}, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first Confirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, "1200.00", first.Order.Total)
	require.NotNil(t, first.Payment)
	assert.Equal(t, "1200.00", first.Payment.Amount)

	rec = s.do(t, http.MethodPost, "/v1/checkout", CheckoutRequest{PaymentMethod: "card"}, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var replay Confirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &replay))
	assert.True(t, replay.Replayed)
	assert.Equal(t, first.Order.ID, replay.Order.ID)

	rec = s.do(t, http.MethodGet, "/v1/cart", nil, bearer(token))
	assert.Empty(t, decodeCart(t, rec).Items)

	rec = s.do(t, http.MethodGet, "/v1/orders/"+first.Order.ID, nil, bearer(token))
	assert.Equal(t, http.StatusOK, rec.Code)
	other := s.signIn(t, "u2", "", "")
	rec = s.do(t, http.MethodGet, "/v1/orders/"+first.Order.ID, nil, bearer(other))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVendorRoutes(t *testing.T) {
	s := newTestServer(t)
	customer := s.signIn(t, "u1", "customer", "")
	vendor := s.signIn(t, "v1", "vendor", "")

	rec := s.do(t, http.MethodGet, "/v1/vendor/dashboard", nil, bearer(customer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodGet, "/v1/vendor/dashboard", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPut, "/v1/vendor/products/K1", map[string]any{
		"name": "Kurta", "Price": 1000, "discount": "10%", "stock": 2, "active": true, "Images": []string{"k.png"},
	}, bearer(vendor))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var product Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Kurta", product.Title)
	require.NotNil(t, product.Price)
	assert.Equal(t, "900.00", *product.Price)
	assert.Equal(t, []string{"k.png"}, product.Images)

	rec = s.do(t, http.MethodGet, "/v1/vendor/dashboard", nil, bearer(vendor))
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
	assert.Equal(t, 1, dashboard.TotalProducts)
	assert.Equal(t, 1, dashboard.LowStockProducts)

	rec = s.do(t, http.MethodPatch, "/v1/vendor/orders/missing", OrderStatusUpdate{Status: "delivered"}, bearer(vendor))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownTokenRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/products", nil, bearer("nope"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
