package query

import (
	"context"
	"time"

	"github.com/mextra/pos-backend/internal/sales/domain"
)

const (
	defaultHistoryLimit = 500
	maxHistoryLimit     = 10000
)

// SalesHistoryQuery selects sales by calendar date range
type SalesHistoryQuery struct {
	StartDate string
	EndDate   string
	Limit     int
}

// SalesHistoryHandler handles the history query
type SalesHistoryHandler struct {
	sales domain.SaleRepository
}

// NewSalesHistoryHandler creates a new history handler
func NewSalesHistoryHandler(sales domain.SaleRepository) *SalesHistoryHandler {
	return &SalesHistoryHandler{sales: sales}
}

// Handle lists sales in the date range, newest first. Unparseable dates
// yield an empty list rather than an error; a reversed range is swapped.
func (h *SalesHistoryHandler) Handle(ctx context.Context, q SalesHistoryQuery) ([]domain.SaleHistoryRow, error) {
	start, err := time.Parse("2006-01-02", q.StartDate)
	if err != nil {
		return []domain.SaleHistoryRow{}, nil
	}
	end, err := time.Parse("2006-01-02", q.EndDate)
	if err != nil {
		return []domain.SaleHistoryRow{}, nil
	}

	if end.Before(start) {
		start, end = end, start
	}

	limit := q.Limit
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := h.sales.History(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.SaleHistoryRow{}
	}
	return rows, nil
}
