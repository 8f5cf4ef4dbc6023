package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawProduct is a product document as stored by older tooling, where field
// names drifted over time (Price/price, Images/images, title/name) and
// discounts were written either as numbers or as "15%" strings.
type RawProduct map[string]any

var hundred = decimal.NewFromInt(100)

// Normalize maps a raw document onto the canonical Product.
func Normalize(id string, raw RawProduct) *Product {
	price, hasPrice := firstNumber(raw, "price", "Price")
	product := &Product{
		ID:          id,
		Title:       firstString(raw, "title", "name"),
		Description: stringField(raw, "description"),
		Images:      firstStrings(raw, "images", "Images"),
		Brand:       stringField(raw, "brand"),
		Category:    stringField(raw, "category"),
		Active:      truthy(raw["active"]),
		HasPrice:    hasPrice,
		Price:       price,
		CreatedAt:   timeField(raw, "createdAt"),
		UpdatedAt:   timeField(raw, "updatedAt"),
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if stock, ok := number(raw["stock"]); ok && stock.IsPositive() {
		product.Stock = int(stock.IntPart())
	}

	discount := parseDiscount(raw["discount"])
	if discount.IsPositive() {
		product.Discount = discount
		if hasPrice && !price.IsZero() {
			original := price
			product.OriginalPrice = &original
			product.Price = price.Sub(price.Mul(discount).Div(hundred)).Round(0)
		}
	}
	return product
}

func parseDiscount(value any) decimal.Decimal {
	if d, ok := number(value); ok {
		return d
	}
	s, ok := value.(string)
	if !ok {
		return decimal.Zero
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func firstNumber(raw RawProduct, keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		if d, ok := number(raw[key]); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

// number accepts only numeric document values; numeric strings are rejected
// the same way the storefront always rejected them for prices.
func number(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint:
		return decimal.NewFromInt(int64(v)), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case uint64:
		return decimal.NewFromInt(int64(v)), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func firstString(raw RawProduct, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringField(raw RawProduct, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func firstStrings(raw RawProduct, keys ...string) []string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case []string:
			return append([]string(nil), v...)
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		if d, ok := number(v); ok {
			return !d.IsZero()
		}
		return true
	}
}

func timeField(raw RawProduct, key string) time.Time {
	switch v := raw[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
