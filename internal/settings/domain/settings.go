package domain

import (
	"context"
	"time"
)

// CompanySettings is the singleton company profile used on receipts and
// reports. Exactly one row exists; reads create it with defaults on demand.
type CompanySettings struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CompanyName   string    `json:"company_name" gorm:"default:'My Company'"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	TaxID         string    `json:"tax_id"`
	Currency      string    `json:"currency" gorm:"default:'USD'"`
	ReceiptFooter string    `json:"receipt_footer"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (CompanySettings) TableName() string {
	return "company_settings"
}

// SettingsRepository persists the singleton row
type SettingsRepository interface {
	GetOrCreate(ctx context.Context) (*CompanySettings, error)
	Save(ctx context.Context, settings *CompanySettings) error
}
