package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.StockMove{}, &domain.Lot{})
}

// AvailableQty sums the ledger for (product, location). Zero when no rows.
func (r *GormLedgerRepository) AvailableQty(ctx context.Context, productID, locationID uint) (decimal.Decimal, error) {
	return sumQty(r.db.WithContext(ctx), productID, locationID)
}

// InTransaction runs fn against a transactional view of the ledger. Any error
// from fn discards every write made inside it.
func (r *GormLedgerRepository) InTransaction(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerTx{tx: tx})
	})
}

func sumQty(db *gorm.DB, productID, locationID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.
		Model(&domain.StockMove{}).
		Select("COALESCE(SUM(qty), 0)").
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// gormLedgerTx implements domain.LedgerTx over one gorm transaction
type gormLedgerTx struct {
	tx *gorm.DB
}

func (t *gormLedgerTx) ProductBySKU(sku string) (*catalog.Product, error) {
	var product catalog.Product
	// Lock the product row so two writers racing on the same product see the
	// availability check and the ledger append as one step.
	err := t.tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku = ?", sku).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (t *gormLedgerTx) LocationByID(id uint) (*catalog.Location, error) {
	var location catalog.Location
	err := t.tx.First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (t *gormLedgerTx) AvailableQty(productID, locationID uint) (decimal.Decimal, error) {
	return sumQty(t.tx, productID, locationID)
}

// FindOrCreateLot returns the lot for (product, code), creating it with the
// given expiry on first receipt. Later receipts reuse the lot and never
// overwrite the expiry.
func (t *gormLedgerTx) FindOrCreateLot(productID uint, lotCode string, expiryDate *time.Time) (*domain.Lot, error) {
	var lot domain.Lot
	err := t.tx.
		Where("product_id = ? AND lot_code = ?", productID, lotCode).
		First(&lot).Error
	if err == nil {
		return &lot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	lot = domain.Lot{
		ProductID:  productID,
		LotCode:    lotCode,
		ExpiryDate: expiryDate,
	}
	if err := t.tx.Create(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (t *gormLedgerTx) Append(move *domain.StockMove) error {
	return t.tx.Create(move).Error
}
