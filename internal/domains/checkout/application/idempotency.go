package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/storefront/internal/domains/checkout/domain"
)

type normalizedCheckoutInput struct {
	UID           string `json:"uid"`
	PaymentMethod string `json:"paymentMethod"`
}

// FingerprintCheckout builds a deterministic hash of the checkout request
// (excluding the idempotency key). The cart is not part of it: a replay
// arrives after the first attempt already emptied the cart.
func FingerprintCheckout(uid string, method domain.PaymentMethod) (string, error) {
	payload, err := json.Marshal(normalizedCheckoutInput{UID: uid, PaymentMethod: string(method)})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
