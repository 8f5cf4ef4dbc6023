package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_LegacyFieldNames(t *testing.T) {
	product := Normalize("p-1", RawProduct{
		"Price":  float64(499),
		"Images": []any{"https://cdn.example/a.png", "https://cdn.example/b.png"},
		"name":   "Steel Bottle",
		"stock":  7,
		"active": true,
	})

	require.True(t, product.HasPrice)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(499)))
	assert.Equal(t, []string{"https://cdn.example/a.png", "https://cdn.example/b.png"}, product.Images)
	assert.Equal(t, "Steel Bottle", product.Title)
	assert.Equal(t, 7, product.Stock)
	assert.True(t, product.Active)
	assert.Nil(t, product.OriginalPrice)
}

func TestNormalize_CanonicalNamesWin(t *testing.T) {
	product := Normalize("p-2", RawProduct{
		"price": 10,
		"Price": 99,
		"title": "Canonical",
		"name":  "Legacy",
	})

	assert.True(t, product.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Canonical", product.Title)
}

func TestNormalize_DiscountFromPercentString(t *testing.T) {
	product := Normalize("p-3", RawProduct{
		"price":    float64(999),
		"discount": "15%",
		"active":   true,
	})

	require.NotNil(t, product.OriginalPrice)
	assert.True(t, product.OriginalPrice.Equal(decimal.NewFromInt(999)))
	// 999 - 149.85 = 849.15, rounded to whole units.
	assert.True(t, product.Price.Equal(decimal.NewFromInt(849)), product.Price.String())
	assert.True(t, product.Discount.Equal(decimal.NewFromInt(15)))
}

func TestNormalize_MissingOrInvalidFields(t *testing.T) {
	product := Normalize("p-4", RawProduct{
		"price":  "120",
		"stock":  "lots",
		"active": "",
	})

	assert.False(t, product.HasPrice)
	assert.Equal(t, 0, product.Stock)
	assert.False(t, product.InStock())
	assert.False(t, product.Active)
	assert.Equal(t, []string{}, product.Images)

	_, err := product.CurrentPrice()
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProduct_EnsureAvailableNamesProduct(t *testing.T) {
	product := &Product{ID: "p-5", Title: "Desk Lamp", Stock: 2, Active: true}

	err := product.EnsureAvailable(3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.EqualError(t, err, "Desk Lamp only has 2 left")

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	require.NoError(t, product.EnsureAvailable(2))
}

func TestProduct_EnsurePurchasable(t *testing.T) {
	product := &Product{ID: "p-6", Title: "Old Stock"}

	err := product.EnsurePurchasable()
	require.ErrorIs(t, err, ErrProductInactive)
	assert.EqualError(t, err, "Old Stock is inactive")
}
