package storefrontserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
)

// OrderAPI serves order history to customers and the back office to vendors.
type OrderAPI struct {
	orders ordersports.Service
}

func NewOrderAPI(orders ordersports.Service) OrderAPI {
	return OrderAPI{orders: orders}
}

// Get /v1/orders
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	orders, err := api.orders.List(c.Request.Context(), ordersports.Filter{UID: uidFrom(c)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrders(orders))
}

// Get /v1/orders/:orderId
// Orders of other accounts are reported as missing.
func (api *OrderAPI) GetMyOrder(c *gin.Context) {
	order, err := api.orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UID != uidFrom(c) {
		respondError(c, ordersdomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Get /v1/vendor/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	filter := ordersports.Filter{
		UID:    c.Query("uid"),
		Status: ordersdomain.Status(c.Query("status")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, errors.New("limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}
	orders, err := api.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrders(orders))
}

// Patch /v1/vendor/orders/:orderId
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload OrderStatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	order, err := api.orders.UpdateStatus(c.Request.Context(), c.Param("orderId"), ordersdomain.Status(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Get /v1/vendor/dashboard
func (api *OrderAPI) Dashboard(c *gin.Context) {
	dashboard, err := api.orders.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDashboard(dashboard))
}
