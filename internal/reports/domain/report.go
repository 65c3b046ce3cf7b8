package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRow is one non-zero (product, location, lot) group summed over
// the movement ledger
type InventoryRow struct {
	SKU      string          `json:"sku"`
	Product  string          `json:"product"`
	Location string          `json:"location"`
	Lot      *string         `json:"lot,omitempty"`
	Expiry   *time.Time      `json:"expiry,omitempty"`
	Qty      decimal.Decimal `json:"qty"`
}

// DailyTotal is one calendar day's summed sale line totals
type DailyTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// ReportRepository is the read-only aggregation side over the ledger and
// sales tables
type ReportRepository interface {
	InventoryRows(ctx context.Context) ([]InventoryRow, error)
	DailySales(ctx context.Context, startDate, endDate time.Time) ([]DailyTotal, error)
}
