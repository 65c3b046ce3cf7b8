package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/reports/domain"
	stock "github.com/mextra/pos-backend/internal/stock/domain"
)

type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// InventoryRows groups the ledger by (product, location, lot), sums the
// signed quantities and drops groups that net to zero. Ordered by product
// name, location name, then lot expiry with missing expiries last.
func (r *GormReportRepository) InventoryRows(ctx context.Context) ([]domain.InventoryRow, error) {
	var rows []domain.InventoryRow
	err := r.db.WithContext(ctx).
		Model(&stock.StockMove{}).
		Select("products.sku AS sku, products.name AS product, locations.name AS location, lots.lot_code AS lot, lots.expiry_date AS expiry, COALESCE(SUM(stock_moves.qty), 0) AS qty").
		Joins("JOIN products ON products.id = stock_moves.product_id").
		Joins("JOIN locations ON locations.id = stock_moves.location_id").
		Joins("LEFT JOIN lots ON lots.id = stock_moves.lot_id").
		Group("products.sku, products.name, locations.name, lots.lot_code, lots.expiry_date").
		Having("COALESCE(SUM(stock_moves.qty), 0) <> 0").
		Order("products.name, locations.name, lots.expiry_date ASC NULLS LAST").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DailySales sums sale line totals per calendar day in the range
func (r *GormReportRepository) DailySales(ctx context.Context, startDate, endDate time.Time) ([]domain.DailyTotal, error) {
	var rows []struct {
		Day   time.Time
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("DATE(sales.created_at) AS day, COALESCE(SUM(sale_lines.line_total), 0) AS total").
		Joins("LEFT JOIN sale_lines ON sale_lines.sale_id = sales.id").
		Where("DATE(sales.created_at) >= ? AND DATE(sales.created_at) <= ?",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02")).
		Group("DATE(sales.created_at)").
		Order("DATE(sales.created_at)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]domain.DailyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.DailyTotal{
			Date:  row.Day.Format("2006-01-02"),
			Total: row.Total,
		})
	}
	return totals, nil
}
