package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/storefront/internal/domains/cart/adapters/http/mapper"
	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	catalogports "github.com/Apurer/storefront/internal/domains/catalog/ports"
)

// CartAPI serves the cart of the calling session, guest or account.
type CartAPI struct {
	carts   *cartapp.Sessions
	catalog catalogports.Reader
}

func NewCartAPI(carts *cartapp.Sessions, catalog catalogports.Reader) CartAPI {
	return CartAPI{carts: carts, catalog: catalog}
}

func (api *CartAPI) controller(c *gin.Context) (*cartapp.Controller, bool) {
	ctrl, err := api.carts.Resolve(c.Request.Context(), c.GetHeader(HeaderGuestCart), uidFrom(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return ctrl, true
}

func (api *CartAPI) respondCart(c *gin.Context, status int, ctrl *cartapp.Controller) {
	c.JSON(status, cartmapper.FromState(ctrl.State()))
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	ctrl, ok := api.controller(c)
	if !ok {
		return
	}
	api.respondCart(c, http.StatusOK, ctrl)
}

// Post /v1/cart/items
// Adds quantity units of a product, failing when stock is insufficient.
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload cartmapper.AddItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	ctrl, ok := api.controller(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	product, err := api.catalog.GetProduct(ctx, payload.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.Add(ctx, product, payload.Quantity); err != nil {
		respondError(c, err)
		return
	}
	api.respondCart(c, http.StatusOK, ctrl)
}

// Put /v1/cart/items/:productId
// Sets an absolute quantity; zero removes the line.
func (api *CartAPI) UpdateItem(c *gin.Context) {
	var payload cartmapper.UpdateItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if payload.Quantity == nil {
		badRequest(c, errors.New("quantity is required"))
		return
	}
	ctrl, ok := api.controller(c)
	if !ok {
		return
	}
	if err := ctrl.UpdateQuantity(c.Request.Context(), c.Param("productId"), *payload.Quantity); err != nil {
		respondError(c, err)
		return
	}
	api.respondCart(c, http.StatusOK, ctrl)
}

// Delete /v1/cart/items/:productId
func (api *CartAPI) RemoveItem(c *gin.Context) {
	ctrl, ok := api.controller(c)
	if !ok {
		return
	}
	if err := ctrl.Remove(c.Request.Context(), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	api.respondCart(c, http.StatusOK, ctrl)
}

// Delete /v1/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	ctrl, ok := api.controller(c)
	if !ok {
		return
	}
	if err := ctrl.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	api.respondCart(c, http.StatusOK, ctrl)
}
