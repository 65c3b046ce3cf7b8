package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
)

// Move types tag every ledger row with the operation that produced it.
const (
	MoveTypeReceipt     = "RECEIPT"
	MoveTypeSale        = "SALE"
	MoveTypeSaleAdjust  = "SALE_ADJUST"
	MoveTypeTransferOut = "TRANSFER_OUT"
	MoveTypeTransferIn  = "TRANSFER_IN"
)

// StockMove is one row of the movement ledger: a signed quantity delta for
// (product, location, lot). Rows are appended, never updated or deleted;
// available quantity is the sum of Qty over matching rows. Fixing a bad entry
// means appending a compensating one.
type StockMove struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	ProductID  uint             `json:"product_id" gorm:"not null;index:idx_stock_moves_product_location"`
	LotID      *uint            `json:"lot_id,omitempty" gorm:"index"`
	LocationID uint             `json:"location_id" gorm:"not null;index:idx_stock_moves_product_location"`
	Qty        decimal.Decimal  `json:"qty" gorm:"type:decimal(14,3);not null"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty" gorm:"type:decimal(14,4)"`
	MoveType   string           `json:"move_type" gorm:"not null;index"`
	Ref        string           `json:"ref"`
	MovedAt    time.Time        `json:"moved_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name
func (StockMove) TableName() string {
	return "stock_moves"
}

// Lot is an optional batch identity per product, created lazily on the first
// receipt that references its code. Expiry is set once and never overwritten.
type Lot struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ProductID  uint       `json:"product_id" gorm:"not null;uniqueIndex:idx_lots_product_code"`
	LotCode    string     `json:"lot_code" gorm:"not null;uniqueIndex:idx_lots_product_code"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (Lot) TableName() string {
	return "lots"
}

// LedgerRepository is the read side of the movement ledger plus the entry
// point for guarded writes. Mutations only happen inside InTransaction so the
// availability check and the compensating appends share one snapshot.
type LedgerRepository interface {
	AvailableQty(ctx context.Context, productID, locationID uint) (decimal.Decimal, error)
	InTransaction(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx exposes the ledger operations available inside one transaction.
// Validation failures returned from fn roll back every append made so far.
type LedgerTx interface {
	// ProductBySKU resolves a SKU, locking the product row for the duration
	// of the transaction to serialize concurrent check-and-write cycles.
	ProductBySKU(sku string) (*catalog.Product, error)
	LocationByID(id uint) (*catalog.Location, error)
	AvailableQty(productID, locationID uint) (decimal.Decimal, error)
	FindOrCreateLot(productID uint, lotCode string, expiryDate *time.Time) (*Lot, error)
	Append(move *StockMove) error
}
