package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/sales/domain"
	stock "github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Sale{}, &domain.SaleLine{})
}

func (r *GormSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.WithContext(ctx).First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// LineDetails returns the sale's lines joined with product identity
func (r *GormSaleRepository) LineDetails(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error) {
	var details []domain.SaleLineDetail
	err := r.db.WithContext(ctx).
		Model(&domain.SaleLine{}).
		Select("products.sku AS sku, products.name AS product_name, sale_lines.qty, sale_lines.unit_price, sale_lines.line_total").
		Joins("JOIN products ON products.id = sale_lines.product_id").
		Where("sale_lines.sale_id = ?", saleID).
		Order("sale_lines.id").
		Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// History returns one row per sale in the date range, newest first, with the
// total recomputed from lines rather than read from the cached header amount.
func (r *GormSaleRepository) History(ctx context.Context, startDate, endDate time.Time, limit int) ([]domain.SaleHistoryRow, error) {
	var rows []domain.SaleHistoryRow
	err := r.db.WithContext(ctx).
		Model(&domain.Sale{}).
		Select("sales.id, sales.created_at, sales.customer_name, sales.location_id, sales.receipt_no, COALESCE(SUM(sale_lines.line_total), 0) AS total").
		Joins("LEFT JOIN sale_lines ON sale_lines.sale_id = sales.id").
		Where("DATE(sales.created_at) >= ? AND DATE(sales.created_at) <= ?",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02")).
		Group("sales.id, sales.created_at, sales.customer_name, sales.location_id, sales.receipt_no").
		Order("sales.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InTransaction runs fn against one transaction spanning the sale header,
// its lines and the ledger appends. Any error from fn discards all of them.
func (r *GormSaleRepository) InTransaction(ctx context.Context, fn func(tx domain.SaleTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSaleTx{tx: tx})
	})
}

// gormSaleTx implements domain.SaleTx over one gorm transaction
type gormSaleTx struct {
	tx *gorm.DB
}

func (t *gormSaleTx) ProductBySKU(sku string) (*catalog.Product, error) {
	var product catalog.Product
	// Same row lock as the ledger transactions so concurrent sales on one
	// product serialize their check-and-write cycles.
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

func (t *gormSaleTx) LocationByID(id uint) (*catalog.Location, error) {
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

func (t *gormSaleTx) AvailableQty(productID, locationID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := t.tx.
		Model(&stock.StockMove{}).
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

func (t *gormSaleTx) CreateSale(sale *domain.Sale) error {
	return t.tx.Create(sale).Error
}

func (t *gormSaleTx) UpdateSale(sale *domain.Sale) error {
	return t.tx.Save(sale).Error
}

func (t *gormSaleTx) CreateLine(line *domain.SaleLine) error {
	return t.tx.Create(line).Error
}

func (t *gormSaleTx) AppendMove(move *stock.StockMove) error {
	return t.tx.Create(move).Error
}
