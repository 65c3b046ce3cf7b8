package command

import (
	"context"
	"fmt"

	"github.com/mextra/pos-backend/internal/catalog/domain"
)

// DeactivateProductCommand represents the command to deactivate a product
type DeactivateProductCommand struct {
	ID uint
}

// DeactivateProductHandler handles deactivate product command
type DeactivateProductHandler struct {
	repo domain.ProductRepository
}

// NewDeactivateProductHandler creates a new deactivate product handler
func NewDeactivateProductHandler(repo domain.ProductRepository) *DeactivateProductHandler {
	return &DeactivateProductHandler{repo: repo}
}

// Handle marks the product inactive. POS and receiving stop listing it but
// sales history keeps resolving, so this never hard-deletes the row.
func (h *DeactivateProductHandler) Handle(ctx context.Context, cmd DeactivateProductCommand) error {
	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	product.IsActive = false
	if err := h.repo.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	return nil
}
