package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/catalog/domain"
)

// UpdateProductCommand represents the command to update a product.
// Nil fields are left unchanged; SKU is not editable to keep it stable.
type UpdateProductCommand struct {
	ID           uint
	Name         *string
	Barcode      *string
	Unit         *string
	TaxRate      *decimal.Decimal
	SellingPrice *decimal.Decimal
	IsActive     *bool
}

// UpdateProductHandler handles update product command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) != "" {
		product.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Barcode != nil {
		product.Barcode = cmd.Barcode
	}
	if cmd.Unit != nil && *cmd.Unit != "" {
		product.Unit = *cmd.Unit
	}
	if cmd.TaxRate != nil {
		product.TaxRate = *cmd.TaxRate
	}
	if cmd.SellingPrice != nil {
		product.SellingPrice = *cmd.SellingPrice
	}
	if cmd.IsActive != nil {
		product.IsActive = *cmd.IsActive
	}

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
