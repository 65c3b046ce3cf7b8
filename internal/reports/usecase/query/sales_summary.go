package query

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/reports/domain"
)

// SalesSummaryQuery selects the aggregation window. Empty dates default to a
// trailing 7-day window ending today.
type SalesSummaryQuery struct {
	StartDate string
	EndDate   string
}

// SalesSummaryResult carries the daily series plus the dashboard KPIs
type SalesSummaryResult struct {
	SalesToday     decimal.Decimal     `json:"sales_today"`
	SalesThisMonth decimal.Decimal     `json:"sales_this_month"`
	SalesThisYear  decimal.Decimal     `json:"sales_this_year"`
	Daily          []domain.DailyTotal `json:"daily"`
}

// SalesSummaryHandler handles the sales summary query
type SalesSummaryHandler struct {
	reports domain.ReportRepository
}

// NewSalesSummaryHandler creates a new sales summary handler
func NewSalesSummaryHandler(reports domain.ReportRepository) *SalesSummaryHandler {
	return &SalesSummaryHandler{reports: reports}
}

// Handle aggregates daily totals over the window and derives the
// today/month/year KPIs relative to the end of the requested range, so a
// historical query reports the KPIs as of that period rather than now.
func (h *SalesSummaryHandler) Handle(ctx context.Context, q SalesSummaryQuery) (*SalesSummaryResult, error) {
	end := time.Now()
	if q.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", q.EndDate)
		if err == nil {
			end = parsed
		}
	}

	start := end.AddDate(0, 0, -6)
	if q.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", q.StartDate)
		if err == nil {
			start = parsed
		}
	}

	daily, err := h.reports.DailySales(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if daily == nil {
		daily = []domain.DailyTotal{}
	}

	anchor := end.Format("2006-01-02")
	result := &SalesSummaryResult{
		SalesToday:     decimal.Zero,
		SalesThisMonth: decimal.Zero,
		SalesThisYear:  decimal.Zero,
		Daily:          daily,
	}
	for _, day := range daily {
		if day.Date == anchor {
			result.SalesToday = result.SalesToday.Add(day.Total)
		}
		if strings.HasPrefix(day.Date, anchor[:7]) {
			result.SalesThisMonth = result.SalesThisMonth.Add(day.Total)
		}
		if strings.HasPrefix(day.Date, anchor[:4]) {
			result.SalesThisYear = result.SalesThisYear.Add(day.Total)
		}
	}

	return result, nil
}
