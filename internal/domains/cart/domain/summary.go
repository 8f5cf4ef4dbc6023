package domain

import "github.com/shopspring/decimal"

var (
	// FreeDeliveryAbove is the subtotal beyond which delivery is free.
	FreeDeliveryAbove = decimal.NewFromInt(999)
	// StandardDeliveryCharge applies to every other cart.
	StandardDeliveryCharge = decimal.NewFromInt(50)
)

// Summary is the priced view of a cart.
type Summary struct {
	TotalItems     int
	Subtotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal
}

// Summarize prices the state. Empty carts carry no delivery charge.
func Summarize(state State) Summary {
	subtotal := state.TotalPrice()
	delivery := decimal.Zero
	if len(state.Items) > 0 && !subtotal.GreaterThan(FreeDeliveryAbove) {
		delivery = StandardDeliveryCharge
	}
	return Summary{
		TotalItems:     state.TotalItems(),
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Total:          subtotal.Add(delivery),
	}
}
