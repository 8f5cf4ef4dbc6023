package storefrontserver

import (
	"time"

	cartmapper "github.com/Apurer/storefront/internal/domains/cart/adapters/http/mapper"
	checkoutdomain "github.com/Apurer/storefront/internal/domains/checkout/domain"
)

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type Readiness struct {
	Profile Profile               `json:"profile"`
	Items   []cartmapper.CartItem `json:"items"`
	Summary cartmapper.Summary    `json:"summary"`
}

type Payment struct {
	ID           string    `json:"id"`
	Method       string    `json:"method"`
	Amount       string    `json:"amount"`
	AuthorizedAt time.Time `json:"authorizedAt"`
}

type Confirmation struct {
	Order    Order    `json:"order"`
	Payment  *Payment `json:"payment,omitempty"`
	Replayed bool     `json:"replayed"`
}

func fromReadiness(readiness *checkoutdomain.Readiness) Readiness {
	items := make([]cartmapper.CartItem, 0, len(readiness.Items))
	for _, item := range readiness.Items {
		items = append(items, cartmapper.FromItem(item.ToItem()))
	}
	return Readiness{
		Profile: fromProfile(readiness.Profile),
		Items:   items,
		Summary: cartmapper.FromSummary(readiness.Summary),
	}
}

func fromConfirmation(confirmation *checkoutdomain.Confirmation) Confirmation {
	out := Confirmation{Order: fromOrder(confirmation.Order), Replayed: confirmation.Replayed}
	if auth := confirmation.Payment; auth != nil {
		out.Payment = &Payment{
			ID:           auth.ID,
			Method:       string(auth.Method),
			Amount:       auth.Amount.StringFixed(2),
			AuthorizedAt: auth.AuthorizedAt,
		}
	}
	return out
}
