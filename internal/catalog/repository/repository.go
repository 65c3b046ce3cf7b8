package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Location{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindActive(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&products).Error
	return products, err
}

// FindActiveWithStock joins each active product with the summed ledger
// quantity at the given location. Products with no movements report zero.
func (r *GormProductRepository) FindActiveWithStock(ctx context.Context, locationID uint) ([]domain.ProductWithStock, error) {
	var rows []domain.ProductWithStock
	err := r.db.WithContext(ctx).
		Table("products").
		Select(`products.id, products.sku, products.name, products.unit,
			products.selling_price, products.tax_rate,
			COALESCE(SUM(stock_moves.qty), 0) AS available_qty`).
		Joins(`LEFT JOIN stock_moves ON stock_moves.product_id = products.id
			AND stock_moves.location_id = ?`, locationID).
		Where("products.is_active = ?", true).
		Group("products.id").
		Order("products.name asc").
		Scan(&rows).Error
	return rows, err
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) MaxID(ctx context.Context) (uint, error) {
	var maxID *uint
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("MAX(id)").
		Scan(&maxID).Error
	if err != nil {
		return 0, err
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

func (r *GormProductRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) Create(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *GormLocationRepository) FindByID(ctx context.Context, id uint) (*domain.Location, error) {
	var location domain.Location
	err := r.db.WithContext(ctx).First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *GormLocationRepository) FindByName(ctx context.Context, name string) (*domain.Location, error) {
	var location domain.Location
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *GormLocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).
		Order("sort_order asc, name asc").
		Find(&locations).Error
	return locations, err
}

func (r *GormLocationRepository) Update(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *GormLocationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Location{}).Count(&count).Error
	return count, err
}
