package seed

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/catalog/domain"
)

const fixture = `
products:
  - id: bottle
    Price: 499
    name: Steel Bottle
    Images: ["https://cdn.example/bottle.png"]
    stock: 12
    active: true
  - id: lamp
    price: 1200
    title: Desk Lamp
    discount: "10%"
    stock: 2
    active: true
    brand: Lumo
`

func TestLoadYAML_NormalisesLegacyEntries(t *testing.T) {
	products, err := LoadYAML(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, products, 2)

	bottle := products[0]
	assert.Equal(t, "bottle", bottle.ID)
	assert.Equal(t, "Steel Bottle", bottle.Title)
	assert.True(t, bottle.Price.Equal(decimal.NewFromInt(499)))
	assert.Equal(t, "https://cdn.example/bottle.png", bottle.PrimaryImage())
	assert.Equal(t, 12, bottle.Stock)

	lamp := products[1]
	assert.True(t, lamp.Price.Equal(decimal.NewFromInt(1080)))
	assert.True(t, lamp.LowStock())
	assert.Equal(t, "Lumo", lamp.Brand)
}

func TestLoadYAML_RejectsMissingAndDuplicateIDs(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("products:\n  - price: 1\n"))
	require.ErrorIs(t, err, domain.ErrInvalidProductID)

	_, err = LoadYAML(strings.NewReader("products:\n  - id: a\n  - id: a\n"))
	require.ErrorContains(t, err, "duplicate product id")
}

func TestLoadYAML_EmptyInput(t *testing.T) {
	products, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, products)
}
