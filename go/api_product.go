package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
)

// ProductAPI exposes catalog reads and the vendor write path.
type ProductAPI struct {
	catalog *catalogapp.Service
}

func NewProductAPI(catalog *catalogapp.Service) ProductAPI {
	return ProductAPI{catalog: catalog}
}

// Get /v1/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProducts(products))
}

// Get /v1/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	product, err := api.catalog.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// Put /v1/vendor/products/:productId
// Accepts the legacy document shape and stores the normalised product.
func (api *ProductAPI) UpsertProduct(c *gin.Context) {
	var raw catalogdomain.RawProduct
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := api.catalog.UpsertRaw(c.Request.Context(), c.Param("productId"), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(saved))
}
