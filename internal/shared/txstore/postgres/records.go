package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

type productRecord struct {
	ID            string              `gorm:"primaryKey;column:id;size:128"`
	Title         string              `gorm:"column:title"`
	Description   string              `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2)"`
	HasPrice      bool                `gorm:"column:has_price"`
	OriginalPrice decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(5,2)"`
	Stock         int                 `gorm:"column:stock"`
	Active        bool                `gorm:"column:active;index"`
	Images        pq.StringArray      `gorm:"column:images;type:text[]"`
	Brand         string              `gorm:"column:brand"`
	Category      string              `gorm:"column:category;index"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type cartItemRecord struct {
	UID        string          `gorm:"primaryKey;column:uid;size:128"`
	ProductID  string          `gorm:"primaryKey;column:product_id;size:128"`
	Qty        int             `gorm:"column:qty"`
	PriceAtAdd decimal.Decimal `gorm:"column:price_at_add;type:numeric(12,2)"`
	AddedAt    time.Time       `gorm:"column:added_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

type orderRecord struct {
	ID            string            `gorm:"primaryKey;column:id;size:64"`
	UID           string            `gorm:"column:uid;index"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	Status        string            `gorm:"column:status;type:varchar(32);index"`
	PaymentMethod string            `gorm:"column:payment_method;type:varchar(32)"`
	CreatedAt     time.Time         `gorm:"column:created_at;index"`
	UpdatedAt     time.Time         `gorm:"column:updated_at"`
	Lines         []orderLineRecord `gorm:"foreignKey:OrderID;references:ID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	OrderID   string          `gorm:"primaryKey;column:order_id;size:64"`
	Position  int             `gorm:"primaryKey;column:position"`
	ProductID string          `gorm:"column:product_id"`
	Title     string          `gorm:"column:title"`
	Qty       int             `gorm:"column:qty"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

func toProductRecord(p *catalogdomain.Product) productRecord {
	rec := productRecord{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		HasPrice:    p.HasPrice,
		Discount:    p.Discount,
		Stock:       p.Stock,
		Active:      p.Active,
		Images:      pq.StringArray(append([]string{}, p.Images...)),
		Brand:       p.Brand,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OriginalPrice != nil {
		rec.OriginalPrice = decimal.NewNullDecimal(*p.OriginalPrice)
	}
	return rec
}

func (r productRecord) toDomain() *catalogdomain.Product {
	product := &catalogdomain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		HasPrice:    r.HasPrice,
		Discount:    r.Discount,
		Stock:       r.Stock,
		Active:      r.Active,
		Images:      append([]string{}, r.Images...),
		Brand:       r.Brand,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.OriginalPrice.Valid {
		original := r.OriginalPrice.Decimal
		product.OriginalPrice = &original
	}
	return product
}

func toCartItemRecord(uid string, item *cartdomain.RemoteItem) cartItemRecord {
	return cartItemRecord{
		UID:        uid,
		ProductID:  item.ProductID,
		Qty:        item.Qty,
		PriceAtAdd: item.PriceAtAdd,
		AddedAt:    item.AddedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func (r cartItemRecord) toDomain() *cartdomain.RemoteItem {
	return &cartdomain.RemoteItem{
		ProductID:  r.ProductID,
		Qty:        r.Qty,
		PriceAtAdd: r.PriceAtAdd,
		AddedAt:    r.AddedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toOrderRecord(o *ordersdomain.Order) orderRecord {
	rec := orderRecord{
		ID:            o.ID,
		UID:           o.UID,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Lines:         make([]orderLineRecord, 0, len(o.Items)),
	}
	for idx, line := range o.Items {
		rec.Lines = append(rec.Lines, orderLineRecord{
			OrderID:   o.ID,
			Position:  idx,
			ProductID: line.ProductID,
			Title:     line.Title,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *ordersdomain.Order {
	order := &ordersdomain.Order{
		ID:            r.ID,
		UID:           r.UID,
		Total:         r.Total,
		Status:        ordersdomain.Status(r.Status),
		PaymentMethod: r.PaymentMethod,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Items:         make([]ordersdomain.Line, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		order.Items = append(order.Items, ordersdomain.Line{
			ProductID: line.ProductID,
			Title:     line.Title,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return order
}
