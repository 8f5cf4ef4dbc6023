package storefrontserver

import (
	"time"

	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
)

// Product is the canonical product as served to the web client.
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         *string   `json:"price"`
	OriginalPrice *string   `json:"originalPrice,omitempty"`
	Discount      string    `json:"discount"`
	Stock         int       `json:"stock"`
	InStock       bool      `json:"inStock"`
	Active        bool      `json:"active"`
	Images        []string  `json:"images"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

func fromProduct(product *catalogdomain.Product) Product {
	out := Product{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Discount:    product.Discount.String(),
		Stock:       product.Stock,
		InStock:     product.InStock(),
		Active:      product.Active,
		Images:      product.Images,
		Brand:       product.Brand,
		Category:    product.Category,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if product.HasPrice {
		price := product.Price.StringFixed(2)
		out.Price = &price
	}
	if product.OriginalPrice != nil {
		original := product.OriginalPrice.StringFixed(2)
		out.OriginalPrice = &original
	}
	return out
}

func fromProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, fromProduct(product))
	}
	return out
}
