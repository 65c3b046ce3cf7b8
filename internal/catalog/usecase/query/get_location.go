package query

import (
	"context"

	"github.com/mextra/pos-backend/internal/catalog/domain"
)

// GetLocationQuery represents the query to get one location
type GetLocationQuery struct {
	ID uint
}

// GetLocationHandler handles get location query
type GetLocationHandler struct {
	repo domain.LocationRepository
}

// NewGetLocationHandler creates a new get location handler
func NewGetLocationHandler(repo domain.LocationRepository) *GetLocationHandler {
	return &GetLocationHandler{repo: repo}
}

// Handle returns the location or apperr.ErrNotFound
func (h *GetLocationHandler) Handle(ctx context.Context, q GetLocationQuery) (*domain.Location, error) {
	return h.repo.FindByID(ctx, q.ID)
}
