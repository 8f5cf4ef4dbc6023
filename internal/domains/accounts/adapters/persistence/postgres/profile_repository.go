package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront/internal/domains/accounts/domain"
	"github.com/Apurer/storefront/internal/domains/accounts/ports"
)

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

// ProfileRepository persists checkout profiles in PostgreSQL using GORM.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

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

func (r *ProfileRepository) GetProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record profileRecord
	if err := r.db.WithContext(ctx).First(&record, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProfileNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProfileRepository) SaveProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	record := toRecord(profile)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "uid"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       record.Name,
				"email":      record.Email,
				"phone":      record.Phone,
				"street":     record.Street,
				"city":       record.City,
				"state":      record.State,
				"pincode":    record.Pincode,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, record.UID)
}

func (r *ProfileRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres profile repository not configured")
	}
	return nil
}

func toRecord(p *domain.Profile) profileRecord {
	return profileRecord{
		UID:     p.UID,
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Street:  p.Address.Street,
		City:    p.Address.City,
		State:   p.Address.State,
		Pincode: p.Address.Pincode,
	}
}

func (r profileRecord) toDomain() *domain.Profile {
	return &domain.Profile{
		UID:   r.UID,
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Address: domain.Address{
			Street:  r.Street,
			City:    r.City,
			State:   r.State,
			Pincode: r.Pincode,
		},
	}
}
