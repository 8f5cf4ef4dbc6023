package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

var _ txstore.Tx = (*tx)(nil)

// tx wraps the *gorm.DB bound to an open transaction.
type tx struct {
	db *gorm.DB
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

func (t *tx) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	var record productRecord
	err := t.db.WithContext(ctx).Clauses(forUpdate()).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.NotFound(id)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *tx) PutProduct(ctx context.Context, product *catalogdomain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	return upsertProduct(t.db.WithContext(ctx), product)
}

func (t *tx) GetCartItem(ctx context.Context, uid, productID string) (*cartdomain.RemoteItem, error) {
	var record cartItemRecord
	err := t.db.WithContext(ctx).Clauses(forUpdate()).
		First(&record, "uid = ? AND product_id = ?", uid, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *tx) PutCartItem(ctx context.Context, uid string, item *cartdomain.RemoteItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	record := toCartItemRecord(uid, item)
	return t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"qty":          record.Qty,
			"price_at_add": record.PriceAtAdd,
			"updated_at":   record.UpdatedAt,
		}),
	}).Create(&record).Error
}

func (t *tx) DeleteCartItem(ctx context.Context, uid, productID string) error {
	return t.db.WithContext(ctx).
		Where("uid = ? AND product_id = ?", uid, productID).
		Delete(&cartItemRecord{}).Error
}

func (t *tx) ListCartItems(ctx context.Context, uid string) ([]*cartdomain.RemoteItem, error) {
	return listCartItems(t.db.WithContext(ctx).Clauses(forUpdate()), uid)
}

func (t *tx) GetOrder(ctx context.Context, id string) (*ordersdomain.Order, error) {
	var record orderRecord
	err := t.db.WithContext(ctx).Clauses(forUpdate()).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersdomain.ErrNotFound
		}
		return nil, err
	}
	var lines []orderLineRecord
	if err := t.db.WithContext(ctx).Where("order_id = ?", id).Order("position").Find(&lines).Error; err != nil {
		return nil, err
	}
	record.Lines = lines
	return record.toDomain(), nil
}

// PutOrder inserts the order or updates its status. Lines are immutable.
func (t *tx) PutOrder(ctx context.Context, order *ordersdomain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toOrderRecord(order)
	lines := record.Lines
	record.Lines = nil
	db := t.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":     record.Status,
			"updated_at": record.UpdatedAt,
		}),
	}).Create(&record).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lines).Error
}
