package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/settings/domain"
)

type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.CompanySettings{})
}

// GetOrCreate returns the singleton row, inserting the defaults on first
// access. The fixed primary key keeps concurrent first reads from creating
// more than one row.
func (r *GormSettingsRepository) GetOrCreate(ctx context.Context) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = domain.CompanySettings{ID: 1}
	if err := r.db.WithContext(ctx).FirstOrCreate(&settings, domain.CompanySettings{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GormSettingsRepository) Save(ctx context.Context, settings *domain.CompanySettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
