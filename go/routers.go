package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access restricts who may call a route.
type Access int

const (
	AccessPublic Access = iota
	AccessAccount
	AccessVendor
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	Access      Access
}

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	SessionAPI  SessionAPI
	ProductAPI  ProductAPI
	CartAPI     CartAPI
	ProfileAPI  ProfileAPI
	CheckoutAPI CheckoutAPI
	OrderAPI    OrderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, auth Authenticator) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, auth)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, auth Authenticator) *gin.Engine {
	router.Use(Authenticate(auth))
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{}
		switch route.Access {
		case AccessAccount:
			handlers = append(handlers, RequireAccount())
		case AccessVendor:
			handlers = append(handlers, RequireVendor())
		}
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"SignIn", http.MethodPost, "/v1/sessions", handleFunctions.SessionAPI.SignIn, AccessPublic},
		{"SignOut", http.MethodDelete, "/v1/sessions", handleFunctions.SessionAPI.SignOut, AccessAccount},

		{"ListProducts", http.MethodGet, "/v1/products", handleFunctions.ProductAPI.ListProducts, AccessPublic},
		{"GetProduct", http.MethodGet, "/v1/products/:productId", handleFunctions.ProductAPI.GetProduct, AccessPublic},

		{"GetCart", http.MethodGet, "/v1/cart", handleFunctions.CartAPI.GetCart, AccessPublic},
		{"AddCartItem", http.MethodPost, "/v1/cart/items", handleFunctions.CartAPI.AddItem, AccessPublic},
		{"UpdateCartItem", http.MethodPut, "/v1/cart/items/:productId", handleFunctions.CartAPI.UpdateItem, AccessPublic},
		{"RemoveCartItem", http.MethodDelete, "/v1/cart/items/:productId", handleFunctions.CartAPI.RemoveItem, AccessPublic},
		{"ClearCart", http.MethodDelete, "/v1/cart", handleFunctions.CartAPI.ClearCart, AccessPublic},

		{"GetProfile", http.MethodGet, "/v1/profile", handleFunctions.ProfileAPI.GetProfile, AccessAccount},
		{"UpdateProfile", http.MethodPut, "/v1/profile", handleFunctions.ProfileAPI.UpdateProfile, AccessAccount},

		// Checkout answers guests itself so they get the login prompt.
		{"CheckoutReadiness", http.MethodGet, "/v1/checkout/readiness", handleFunctions.CheckoutAPI.Readiness, AccessPublic},
		{"Checkout", http.MethodPost, "/v1/checkout", handleFunctions.CheckoutAPI.Checkout, AccessPublic},

		{"ListMyOrders", http.MethodGet, "/v1/orders", handleFunctions.OrderAPI.ListMyOrders, AccessAccount},
		{"GetMyOrder", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetMyOrder, AccessAccount},

		{"ListOrders", http.MethodGet, "/v1/vendor/orders", handleFunctions.OrderAPI.ListOrders, AccessVendor},
		{"UpdateOrderStatus", http.MethodPatch, "/v1/vendor/orders/:orderId", handleFunctions.OrderAPI.UpdateOrderStatus, AccessVendor},
		{"Dashboard", http.MethodGet, "/v1/vendor/dashboard", handleFunctions.OrderAPI.Dashboard, AccessVendor},
		{"UpsertProduct", http.MethodPut, "/v1/vendor/products/:productId", handleFunctions.ProductAPI.UpsertProduct, AccessVendor},
	}
}
