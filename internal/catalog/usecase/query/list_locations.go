package query

import (
	"context"
	"fmt"

	"github.com/mextra/pos-backend/internal/catalog/domain"
)

// ListLocationsQuery represents the query to list locations
type ListLocationsQuery struct{}

// ListLocationsHandler handles list locations query
type ListLocationsHandler struct {
	repo domain.LocationRepository
}

// NewListLocationsHandler creates a new list locations handler
func NewListLocationsHandler(repo domain.LocationRepository) *ListLocationsHandler {
	return &ListLocationsHandler{repo: repo}
}

// Handle returns all locations ordered by sort order then name
func (h *ListLocationsHandler) Handle(ctx context.Context, _ ListLocationsQuery) ([]domain.Location, error) {
	locations, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
