//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/storefront/test/pact"

	storefrontserver "github.com/Apurer/storefront/go"
	accountsmemory "github.com/Apurer/storefront/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/Apurer/storefront/internal/domains/accounts/application"
	cartmemory "github.com/Apurer/storefront/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/storefront/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	catalogapp "github.com/Apurer/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	checkoutmemory "github.com/Apurer/storefront/internal/domains/checkout/adapters/memory"
	"github.com/Apurer/storefront/internal/domains/checkout/adapters/payment"
	checkoutworkflows "github.com/Apurer/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/storefront/internal/domains/checkout/application"
	ordersobs "github.com/Apurer/storefront/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	txmemory "github.com/Apurer/storefront/internal/shared/txstore/memory"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductInStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedProduct(t, 5)
			}
			return nil, nil
		},
		pacttest.StateProductLastUnit: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedProduct(t, 1)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the in-memory storefront before every
// interaction so guest carts and stock never leak between them.
type contractProviderApp struct {
	mu       sync.RWMutex
	router   *gin.Engine
	catalog  *catalogapp.Service
	sessions *cartapp.Sessions
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		app.server.Close()
		app.mu.Lock()
		app.sessions.Close()
		app.mu.Unlock()
	})
	return app
}

func (a *contractProviderApp) reset() {
	store := txmemory.NewStore()
	accounts := accountsapp.NewService(accountsmemory.NewProfileRepository(), accountsmemory.NewSessionStore(0))
	catalog := catalogapp.NewService(store)
	cart := cartobs.New(cartapp.NewService(store))
	guests := cartmemory.NewGuestStore(0)
	sessions := cartapp.NewSessions(cartapp.Dependencies{
		Remote: cart,
		Guests: guests,
		Merger: cartapp.NewMerger(cart, guests, store),
	})
	orders := ordersobs.New(ordersapp.NewService(store, store, store))
	checkout := checkoutapp.NewService(accounts, cart, orders,
		checkoutworkflows.NewInlineOrderPlacer(payment.NewSimulated(), orders),
		checkoutapp.WithIdempotencyStore(checkoutmemory.NewIdempotencyStore()),
	)

	handlers := storefrontserver.ApiHandleFunctions{
		SessionAPI:  storefrontserver.NewSessionAPI(accounts, sessions, false),
		ProductAPI:  storefrontserver.NewProductAPI(catalog),
		CartAPI:     storefrontserver.NewCartAPI(sessions, catalog),
		ProfileAPI:  storefrontserver.NewProfileAPI(accounts),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkout, sessions),
		OrderAPI:    storefrontserver.NewOrderAPI(orders),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers, accounts)

	a.mu.Lock()
	previous := a.sessions
	a.router, a.catalog, a.sessions = router, catalog, sessions
	a.mu.Unlock()
	if previous != nil {
		previous.Close()
	}
}

func (a *contractProviderApp) seedProduct(t testing.TB, stock int) {
	t.Helper()
	a.mu.RLock()
	catalog := a.catalog
	a.mu.RUnlock()
	_, err := catalog.UpsertRaw(context.Background(), pacttest.ProductID, catalogdomain.RawProduct(pacttest.ExampleProductPayload(stock)))
	require.NoError(t, err)
}
