package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the UI-facing cart line, keyed by product id.
type Item struct {
	ID         string
	Quantity   int
	Price      decimal.Decimal
	PriceAtAdd *decimal.Decimal
	Title      string
	Image      string
	Brand      string
	// Stock is the last known catalog stock, nil when never enriched.
	Stock *int
}

// UnitPrice prefers the captured price and falls back to the list price.
func (i Item) UnitPrice() decimal.Decimal {
	if i.PriceAtAdd != nil {
		return *i.PriceAtAdd
	}
	return i.Price
}

// LineTotal is UnitPrice times Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) clone() Item {
	if i.PriceAtAdd != nil {
		p := *i.PriceAtAdd
		i.PriceAtAdd = &p
	}
	if i.Stock != nil {
		s := *i.Stock
		i.Stock = &s
	}
	return i
}

// CloneItems deep-copies a slice of items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for idx, item := range items {
		out[idx] = item.clone()
	}
	return out
}

// RemoteItem is the durable per-user cart document keyed by product id.
type RemoteItem struct {
	ProductID  string
	Qty        int
	PriceAtAdd decimal.Decimal
	AddedAt    time.Time
	UpdatedAt  time.Time
}

// Clone returns a copy of the document.
func (r *RemoteItem) Clone() *RemoteItem {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// ToItem maps a remote document onto the local shape before enrichment.
func (r RemoteItem) ToItem() Item {
	qty := r.Qty
	if qty <= 0 {
		qty = 1
	}
	price := r.PriceAtAdd
	return Item{
		ID:         r.ProductID,
		Quantity:   qty,
		Price:      price,
		PriceAtAdd: &price,
	}
}
