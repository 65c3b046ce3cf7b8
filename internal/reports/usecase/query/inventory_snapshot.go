package query

import (
	"context"

	"github.com/mextra/pos-backend/internal/reports/domain"
)

// InventorySnapshotQuery requests the current non-zero stock positions
type InventorySnapshotQuery struct{}

// InventorySnapshotResult wraps the grouped rows
type InventorySnapshotResult struct {
	Items []domain.InventoryRow `json:"items"`
}

// InventorySnapshotHandler handles the inventory report query
type InventorySnapshotHandler struct {
	reports domain.ReportRepository
}

// NewInventorySnapshotHandler creates a new inventory snapshot handler
func NewInventorySnapshotHandler(reports domain.ReportRepository) *InventorySnapshotHandler {
	return &InventorySnapshotHandler{reports: reports}
}

// Handle returns the grouped, zero-suppressed ledger positions
func (h *InventorySnapshotHandler) Handle(ctx context.Context, _ InventorySnapshotQuery) (*InventorySnapshotResult, error) {
	rows, err := h.reports.InventoryRows(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.InventoryRow{}
	}
	return &InventorySnapshotResult{Items: rows}, nil
}
