package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	stock "github.com/mextra/pos-backend/internal/stock/domain"
)

// Sale statuses. A sale only ever persists as COMMITTED: validation failures
// roll back the provisional header together with every line and ledger row.
const (
	StatusOpen       = "OPEN"
	StatusValidating = "VALIDATING"
	StatusCommitted  = "COMMITTED"
	StatusAborted    = "ABORTED"
)

// LowStockThreshold triggers a warning when a committed line leaves the
// product at or below this quantity at the sale location.
var LowStockThreshold = decimal.NewFromInt(5)

// Sale is the transaction header
type Sale struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ReceiptNo     *string         `json:"receipt_no,omitempty" gorm:"uniqueIndex"`
	CustomerName  *string         `json:"customer_name,omitempty"`
	LocationID    uint            `json:"location_id" gorm:"not null;index"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Status        string          `json:"status" gorm:"not null;default:'OPEN'"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// SaleLine is one sold item on a sale
type SaleLine struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	SaleID    uint            `json:"sale_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Qty       decimal.Decimal `json:"qty" gorm:"type:decimal(14,3);not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(14,2);not null"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:decimal(14,2);not null"`
}

// TableName specifies the table name
func (SaleLine) TableName() string {
	return "sale_lines"
}

// SaleLineDetail is a sale line joined with its product identity
type SaleLineDetail struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleHistoryRow is one history entry with the total recomputed from lines
type SaleHistoryRow struct {
	ID           uint            `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	CustomerName *string         `json:"customer_name,omitempty"`
	LocationID   uint            `json:"location_id"`
	ReceiptNo    *string         `json:"receipt_no,omitempty"`
	Total        decimal.Decimal `json:"total"`
}

// SaleRepository is the read side of sales plus the transactional entry
// point for the sale state machine.
type SaleRepository interface {
	FindByID(ctx context.Context, id uint) (*Sale, error)
	LineDetails(ctx context.Context, saleID uint) ([]SaleLineDetail, error)
	History(ctx context.Context, startDate, endDate time.Time, limit int) ([]SaleHistoryRow, error)
	InTransaction(ctx context.Context, fn func(tx SaleTx) error) error
}

// SaleTx exposes the operations a sale transaction needs: catalog and ledger
// reads plus the header, line and ledger appends. An error from fn discards
// every write, including the provisional sale header.
type SaleTx interface {
	ProductBySKU(sku string) (*catalog.Product, error)
	LocationByID(id uint) (*catalog.Location, error)
	AvailableQty(productID, locationID uint) (decimal.Decimal, error)
	CreateSale(sale *Sale) error
	UpdateSale(sale *Sale) error
	CreateLine(line *SaleLine) error
	AppendMove(move *stock.StockMove) error
}
