package mapper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

func TestFromState(t *testing.T) {
	captured := decimal.NewFromInt(999)
	stock := 4
	state := domain.Reduce(domain.State{}, domain.Hydrate([]domain.Item{
		{ID: "A", Quantity: 1, Price: decimal.NewFromInt(1100), PriceAtAdd: &captured, Title: "Kurta", Stock: &stock},
		{ID: "B", Quantity: 1, Price: decimal.NewFromInt(50)},
	}))

	cart := FromState(state)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "1100.00", cart.Items[0].Price)
	require.NotNil(t, cart.Items[0].PriceAtAdd)
	assert.Equal(t, "999.00", *cart.Items[0].PriceAtAdd)
	assert.Equal(t, "999.00", cart.Items[0].LineTotal)
	assert.Equal(t, 4, *cart.Items[0].Stock)
	assert.Nil(t, cart.Items[1].Stock)

	assert.Equal(t, 2, cart.Summary.TotalItems)
	assert.Equal(t, "1049.00", cart.Summary.Subtotal)
	assert.Equal(t, "0.00", cart.Summary.DeliveryCharge)
	assert.Contains(t, cart.Summary.Formatted.Total, "1,049.00")
	assert.True(t, cart.Hydrated)
}

func TestFormatINR(t *testing.T) {
	formatted := FormatINR(decimal.RequireFromString("123456.5"))
	assert.Contains(t, formatted, "123,456.50")
}
