package mapper

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

// CartItem is the HTTP representation of one cart line.
type CartItem struct {
	ProductID  string  `json:"productId"`
	Title      string  `json:"title,omitempty"`
	Image      string  `json:"image,omitempty"`
	Brand      string  `json:"brand,omitempty"`
	Quantity   int     `json:"quantity"`
	Price      string  `json:"price"`
	PriceAtAdd *string `json:"priceAtAdd,omitempty"`
	LineTotal  string  `json:"lineTotal"`
	Stock      *int    `json:"stock,omitempty"`
}

// Summary carries the totals both as decimal strings and formatted for display.
type Summary struct {
	TotalItems     int              `json:"totalItems"`
	Subtotal       string           `json:"subtotal"`
	DeliveryCharge string           `json:"deliveryCharge"`
	Total          string           `json:"total"`
	Formatted      FormattedSummary `json:"formatted"`
}

type FormattedSummary struct {
	Subtotal       string `json:"subtotal"`
	DeliveryCharge string `json:"deliveryCharge"`
	Total          string `json:"total"`
}

// Cart is the response body of every cart endpoint.
type Cart struct {
	Items    []CartItem `json:"items"`
	Summary  Summary    `json:"summary"`
	Hydrated bool       `json:"hydrated"`
	Syncing  bool       `json:"syncing"`
}

// AddItem is the payload of POST /v1/cart/items.
type AddItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItem is the payload of PUT /v1/cart/items/:productId.
type UpdateItem struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// FromState maps the controller state onto the HTTP representation.
func FromState(state domain.State) Cart {
	items := make([]CartItem, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, FromItem(item))
	}
	return Cart{
		Items:    items,
		Summary:  FromSummary(domain.Summarize(state)),
		Hydrated: state.Hydrated,
		Syncing:  state.Syncing,
	}
}

func FromItem(item domain.Item) CartItem {
	out := CartItem{
		ProductID: item.ID,
		Title:     item.Title,
		Image:     item.Image,
		Brand:     item.Brand,
		Quantity:  item.Quantity,
		Price:     item.Price.StringFixed(2),
		LineTotal: item.LineTotal().StringFixed(2),
	}
	if item.PriceAtAdd != nil {
		captured := item.PriceAtAdd.StringFixed(2)
		out.PriceAtAdd = &captured
	}
	if item.Stock != nil {
		stock := *item.Stock
		out.Stock = &stock
	}
	return out
}

func FromSummary(summary domain.Summary) Summary {
	return Summary{
		TotalItems:     summary.TotalItems,
		Subtotal:       summary.Subtotal.StringFixed(2),
		DeliveryCharge: summary.DeliveryCharge.StringFixed(2),
		Total:          summary.Total.StringFixed(2),
		Formatted: FormattedSummary{
			Subtotal:       FormatINR(summary.Subtotal),
			DeliveryCharge: FormatINR(summary.DeliveryCharge),
			Total:          FormatINR(summary.Total),
		},
	}
}

var (
	printer   = message.NewPrinter(language.English)
	inrSymbol = printer.Sprint(currency.NarrowSymbol(currency.INR))
)

// FormatINR renders an amount with the rupee symbol and digit grouping.
func FormatINR(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return printer.Sprintf("%s%.2f", inrSymbol, value)
}
