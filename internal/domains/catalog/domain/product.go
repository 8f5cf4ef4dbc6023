package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold marks products that should be restocked soon.
const LowStockThreshold = 3

var (
	ErrInvalidProductID = errors.New("product id is required")
	ErrNegativeStock    = errors.New("stock must not be negative")
)

// Product is the canonical catalog record. Legacy document shapes never reach
// past Normalize.
type Product struct {
	ID            string
	Title         string
	Description   string
	Price         decimal.Decimal
	HasPrice      bool
	OriginalPrice *decimal.Decimal
	Discount      decimal.Decimal
	Stock         int
	Active        bool
	Images        []string
	Brand         string
	Category      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate enforces the catalog invariants.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidProductID
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// LowStock reports whether the product is below the restock threshold.
func (p *Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}

// PrimaryImage returns the first image or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DisplayName is the label used in customer facing errors.
func (p *Product) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// EnsurePurchasable fails when the product is inactive.
func (p *Product) EnsurePurchasable() error {
	if !p.Active {
		return &ProductInactiveError{ProductID: p.ID, Title: p.Title}
	}
	return nil
}

// EnsureAvailable fails when requested exceeds the current stock.
func (p *Product) EnsureAvailable(requested int) error {
	if requested > p.Stock {
		return &InsufficientStockError{
			ProductID: p.ID,
			Title:     p.Title,
			Requested: requested,
			Available: p.Stock,
		}
	}
	return nil
}

// CurrentPrice returns the price captured into carts, failing for products
// whose document carried no usable price.
func (p *Product) CurrentPrice() (decimal.Decimal, error) {
	if !p.HasPrice {
		return decimal.Zero, ErrInvalidPrice
	}
	return p.Price, nil
}

// Clone returns a deep copy safe to hand across goroutines.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Images != nil {
		clone.Images = append([]string(nil), p.Images...)
	}
	if p.OriginalPrice != nil {
		original := *p.OriginalPrice
		clone.OriginalPrice = &original
	}
	return &clone
}
