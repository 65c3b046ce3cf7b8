package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product. SKU is immutable once set;
// deactivation is a soft delete so past sales keep resolving.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	SKU          string          `json:"sku" gorm:"uniqueIndex;not null"`
	Name         string          `json:"name" gorm:"not null;index"`
	Barcode      *string         `json:"barcode,omitempty"`
	Unit         string          `json:"unit" gorm:"not null;default:'piece'"`
	TaxRate      decimal.Decimal `json:"tax_rate" gorm:"type:decimal(5,2);default:0"`
	SellingPrice decimal.Decimal `json:"selling_price" gorm:"type:decimal(14,2);default:0"`
	IsPerishable bool            `json:"is_perishable" gorm:"not null;default:true"`
	IsActive     bool            `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductWithStock is a product row joined with its ledger-derived
// availability at one location.
type ProductWithStock struct {
	ID           uint            `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	AvailableQty decimal.Decimal `json:"available_qty"`
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindActive(ctx context.Context) ([]Product, error)
	FindActiveWithStock(ctx context.Context, locationID uint) ([]ProductWithStock, error)
	Update(ctx context.Context, product *Product) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	MaxID(ctx context.Context) (uint, error)
	CountActive(ctx context.Context) (int64, error)
}
