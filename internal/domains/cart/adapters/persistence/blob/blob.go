// Package blob encodes the guest cart in the JSON shape browsers kept in
// local storage, so blobs written by either side stay readable.
package blob

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

type item struct {
	ID         string           `json:"id"`
	Quantity   int              `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	PriceAtAdd *decimal.Decimal `json:"priceAtAdd,omitempty"`
	Title      string           `json:"title,omitempty"`
	Image      string           `json:"image,omitempty"`
	Brand      string           `json:"brand,omitempty"`
	Stock      *int             `json:"stock,omitempty"`
}

// Encode serialises items.
func Encode(items []domain.Item) ([]byte, error) {
	out := make([]item, 0, len(items))
	for _, it := range domain.CloneItems(items) {
		out = append(out, item{
			ID:         it.ID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			PriceAtAdd: it.PriceAtAdd,
			Title:      it.Title,
			Image:      it.Image,
			Brand:      it.Brand,
			Stock:      it.Stock,
		})
	}
	return json.Marshal(out)
}

// Decode parses a blob. Entries without an id are dropped and missing
// quantities default to 1. An empty blob decodes to an empty cart.
func Decode(data []byte) ([]domain.Item, error) {
	items := []domain.Item{}
	if len(data) == 0 {
		return items, nil
	}
	var raw []item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}
	for _, r := range raw {
		if r.ID == "" {
			continue
		}
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, domain.Item{
			ID:         r.ID,
			Quantity:   qty,
			Price:      r.Price,
			PriceAtAdd: r.PriceAtAdd,
			Title:      r.Title,
			Image:      r.Image,
			Brand:      r.Brand,
			Stock:      r.Stock,
		})
	}
	return items, nil
}
