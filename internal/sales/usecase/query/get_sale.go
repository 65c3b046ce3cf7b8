package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/sales/domain"
)

// GetSaleQuery looks up one sale by id
type GetSaleQuery struct {
	ID uint
}

// SaleDetail is the sale header with the total recomputed from its lines
type SaleDetail struct {
	ID           uint            `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	CustomerName *string         `json:"customer_name,omitempty"`
	LocationID   uint            `json:"location_id"`
	ReceiptNo    *string         `json:"receipt_no,omitempty"`
	Total        decimal.Decimal `json:"total"`
}

// GetSaleResult pairs the header with its line details
type GetSaleResult struct {
	Sale  SaleDetail              `json:"sale"`
	Lines []domain.SaleLineDetail `json:"lines"`
}

// GetSaleHandler handles the sale lookup query
type GetSaleHandler struct {
	sales domain.SaleRepository
}

// NewGetSaleHandler creates a new get sale handler
func NewGetSaleHandler(sales domain.SaleRepository) *GetSaleHandler {
	return &GetSaleHandler{sales: sales}
}

// Handle returns the sale with its lines. The displayed total is summed from
// the lines, never read from the cached header amount.
func (h *GetSaleHandler) Handle(ctx context.Context, q GetSaleQuery) (*GetSaleResult, error) {
	sale, err := h.sales.FindByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	lines, err := h.sales.LineDetails(ctx, sale.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}

	return &GetSaleResult{
		Sale: SaleDetail{
			ID:           sale.ID,
			CreatedAt:    sale.CreatedAt,
			CustomerName: sale.CustomerName,
			LocationID:   sale.LocationID,
			ReceiptNo:    sale.ReceiptNo,
			Total:        total,
		},
		Lines: lines,
	}, nil
}
