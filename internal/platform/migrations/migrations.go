package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the storefront schema. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&cartItemRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&guestCartRecord{},
		&profileRecord{},
		&sessionRecord{},
		&idempotencyRecord{},
	)
}

// Product schema mirrors the transactional store.
type productRecord struct {
	ID            string              `gorm:"primaryKey;column:id;size:128"`
	Title         string              `gorm:"column:title"`
	Description   string              `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2)"`
	HasPrice      bool                `gorm:"column:has_price"`
	OriginalPrice decimal.NullDecimal `gorm:"column:original_price;type:numeric(12,2)"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(5,2)"`
	Stock         int                 `gorm:"column:stock;check:chk_products_stock,stock >= 0"`
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
	Qty        int             `gorm:"column:qty;check:chk_cart_items_qty,qty > 0"`
	PriceAtAdd decimal.Decimal `gorm:"column:price_at_add;type:numeric(12,2)"`
	AddedAt    time.Time       `gorm:"column:added_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

type orderRecord struct {
	ID            string          `gorm:"primaryKey;column:id;size:64"`
	UID           string          `gorm:"column:uid;index"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(32)"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	OrderID   string          `gorm:"primaryKey;column:order_id;size:64"`
	Position  int             `gorm:"primaryKey;column:position"`
	ProductID string          `gorm:"column:product_id;index"`
	Title     string          `gorm:"column:title"`
	Qty       int             `gorm:"column:qty"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Guest cart schema mirrors the guest cart store.
type guestCartRecord struct {
	Key       string     `gorm:"primaryKey;column:guest_key;size:128"`
	Payload   []byte     `gorm:"column:payload;type:jsonb"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (guestCartRecord) TableName() string { return "guest_carts" }

type profileRecord struct {
	UID       string    `gorm:"primaryKey;column:uid;size:128"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;index"`
	Phone     string    `gorm:"column:phone"`
	Street    string    `gorm:"column:street"`
	City      string    `gorm:"column:city"`
	State     string    `gorm:"column:state"`
	Pincode   string    `gorm:"column:pincode"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (profileRecord) TableName() string { return "profiles" }

// Session schema mirrors the account session store.
type sessionRecord struct {
	Token         string     `gorm:"primaryKey;column:token;size:512"`
	UID           string     `gorm:"column:uid;index"`
	Email         string     `gorm:"column:email"`
	EmailVerified bool       `gorm:"column:email_verified"`
	Role          string     `gorm:"column:role;type:varchar(32)"`
	ExpiresAt     *time.Time `gorm:"column:expires_at;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "sessions" }

// Idempotency schema mirrors the checkout idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }
