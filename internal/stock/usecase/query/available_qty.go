package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/stock/domain"
)

// AvailableQtyQuery represents the availability query for one
// (product, location) pair
type AvailableQtyQuery struct {
	ProductID  uint
	LocationID uint
}

// AvailableQtyHandler handles the availability query
type AvailableQtyHandler struct {
	ledger domain.LedgerRepository
}

// NewAvailableQtyHandler creates a new availability handler
func NewAvailableQtyHandler(ledger domain.LedgerRepository) *AvailableQtyHandler {
	return &AvailableQtyHandler{ledger: ledger}
}

// Handle returns the ledger-derived quantity, zero when no rows exist
func (h *AvailableQtyHandler) Handle(ctx context.Context, q AvailableQtyQuery) (decimal.Decimal, error) {
	if q.ProductID == 0 {
		return decimal.Zero, fmt.Errorf("product_id is required")
	}
	if q.LocationID == 0 {
		return decimal.Zero, fmt.Errorf("location_id is required")
	}
	return h.ledger.AvailableQty(ctx, q.ProductID, q.LocationID)
}
