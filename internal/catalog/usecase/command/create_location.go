package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// CreateLocationCommand represents the command to create a location
type CreateLocationCommand struct {
	Name      string
	SortOrder int
}

// CreateLocationHandler handles create location command
type CreateLocationHandler struct {
	repo domain.LocationRepository
}

// NewCreateLocationHandler creates a new create location handler
func NewCreateLocationHandler(repo domain.LocationRepository) *CreateLocationHandler {
	return &CreateLocationHandler{repo: repo}
}

// Handle executes the create location command
func (h *CreateLocationHandler) Handle(ctx context.Context, cmd CreateLocationCommand) (*domain.Location, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: location name cannot be empty", apperr.ErrInvalidRequest)
	}

	existing, err := h.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to check location name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: location already exists", apperr.ErrConflict)
	}

	sortOrder := cmd.SortOrder
	if sortOrder == 0 {
		sortOrder = 100
	}

	location := &domain.Location{
		Name:      name,
		SortOrder: sortOrder,
	}

	if err := h.repo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}
