// Package postgres backs the transactional store with PostgreSQL. Products and
// cart rows are read with SELECT ... FOR UPDATE; serialization failures and
// deadlocks surface as txstore.ErrConflict and are retried.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront/internal/domains/catalog/ports"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

var (
	_ txstore.Store           = (*Store)(nil)
	_ catalogports.Repository = (*Store)(nil)
	_ ordersports.Repository  = (*Store)(nil)
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// Store runs storefront transactions on PostgreSQL using GORM.
type Store struct {
	db          *gorm.DB
	maxAttempts int
}

type Option func(*Store)

func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		s.maxAttempts = n
	}
}

// NewStore wires the store. Caller manages the DB lifecycle and schema.
func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, maxAttempts: txstore.DefaultAttempts}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) RunInTransaction(ctx context.Context, fn txstore.TxFunc) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return txstore.Retry(ctx, s.maxAttempts, func(ctx context.Context) error {
		err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			return fn(ctx, &tx{db: db})
		})
		return classify(err)
	})
}

func (s *Store) CartItems(ctx context.Context, uid string) ([]*cartdomain.RemoteItem, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return listCartItems(s.db.WithContext(ctx), uid)
}

func (s *Store) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.NotFound(id)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*catalogdomain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*catalogdomain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (s *Store) SaveProduct(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := upsertProduct(s.db.WithContext(ctx), product); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*ordersdomain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return getOrder(s.db.WithContext(ctx), id)
}

func (s *Store) ListOrders(ctx context.Context, filter ordersports.Filter) ([]*ordersdomain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	query := s.db.WithContext(ctx).Preload("Lines", orderedLines).Order("created_at DESC, id DESC")
	if filter.UID != "" {
		query = query.Where("uid = ?", filter.UID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*ordersdomain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres transactional store not configured")
	}
	return nil
}

// classify maps lock contention reported by PostgreSQL onto txstore.ErrConflict.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return fmt.Errorf("%w: %w", txstore.ErrConflict, err)
		}
	}
	return err
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func listCartItems(db *gorm.DB, uid string) ([]*cartdomain.RemoteItem, error) {
	var records []cartItemRecord
	if err := db.Where("uid = ?", uid).Order("added_at, product_id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*cartdomain.RemoteItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func upsertProduct(db *gorm.DB, product *catalogdomain.Product) error {
	record := toProductRecord(product)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error
}

func getOrder(db *gorm.DB, id string) (*ordersdomain.Order, error) {
	var record orderRecord
	if err := db.Preload("Lines", orderedLines).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersdomain.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}
