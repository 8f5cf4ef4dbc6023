package blob

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

func TestDecode_BrowserShape(t *testing.T) {
	items, err := Decode([]byte(`[
		{"id":"A","quantity":2,"price":499,"title":"Bottle","stock":7},
		{"id":"B","price":"1080.50"},
		{"quantity":3}
	]`))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(499)))
	require.NotNil(t, items[0].Stock)
	assert.Equal(t, 7, *items[0].Stock)

	assert.Equal(t, 1, items[1].Quantity)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("1080.50")))
}

func TestEncodeDecode_KeepsCapturedPrice(t *testing.T) {
	captured := decimal.NewFromInt(450)
	data, err := Encode([]domain.Item{{ID: "A", Quantity: 1, Price: decimal.NewFromInt(499), PriceAtAdd: &captured}})
	require.NoError(t, err)

	items, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].PriceAtAdd)
	assert.True(t, items[0].UnitPrice().Equal(captured))
}

func TestDecode_EmptyAndCorrupt(t *testing.T) {
	items, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = Decode([]byte("{not json"))
	assert.Error(t, err)
}
