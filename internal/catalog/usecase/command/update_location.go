package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/mextra/pos-backend/internal/catalog/domain"
)

// UpdateLocationCommand represents the command to update a location
type UpdateLocationCommand struct {
	ID        uint
	Name      *string
	SortOrder *int
}

// UpdateLocationHandler handles update location command
type UpdateLocationHandler struct {
	repo domain.LocationRepository
}

// NewUpdateLocationHandler creates a new update location handler
func NewUpdateLocationHandler(repo domain.LocationRepository) *UpdateLocationHandler {
	return &UpdateLocationHandler{repo: repo}
}

// Handle executes the update location command
func (h *UpdateLocationHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (*domain.Location, error) {
	location, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) != "" {
		location.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.SortOrder != nil {
		location.SortOrder = *cmd.SortOrder
	}

	if err := h.repo.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	return location, nil
}
