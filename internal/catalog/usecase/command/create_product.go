package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	SKU          string
	Name         string
	Barcode      *string
	Unit         string
	TaxRate      decimal.Decimal
	SellingPrice decimal.Decimal
}

// CreateProductHandler handles create product command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command. When no SKU is provided one is
// generated from the product name; a duplicate SKU is a conflict.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperr.ErrInvalidRequest)
	}

	sku := strings.ToUpper(strings.TrimSpace(cmd.SKU))
	if sku == "" {
		generated, err := h.generateSKU(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to generate sku: %w", err)
		}
		sku = generated
	}

	exists, err := h.repo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to check sku: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: sku already exists", apperr.ErrConflict)
	}

	unit := cmd.Unit
	if unit == "" {
		unit = "piece"
	}

	product := &domain.Product{
		SKU:          sku,
		Name:         name,
		Barcode:      cmd.Barcode,
		Unit:         unit,
		TaxRate:      cmd.TaxRate,
		SellingPrice: cmd.SellingPrice,
		IsActive:     true,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// generateSKU builds SKUs like RICE0001 from the product name prefix and the
// next numeric counter, probing until unused.
func (h *CreateProductHandler) generateSKU(ctx context.Context, name string) (string, error) {
	var prefix strings.Builder
	for _, ch := range strings.ToUpper(name) {
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			prefix.WriteRune(ch)
			if prefix.Len() == 4 {
				break
			}
		}
	}
	p := prefix.String()
	if p == "" {
		p = "PRD"
	}

	maxID, err := h.repo.MaxID(ctx)
	if err != nil {
		return "", err
	}
	counter := maxID + 1

	sku := fmt.Sprintf("%s%04d", p, counter)
	for {
		exists, err := h.repo.ExistsBySKU(ctx, sku)
		if err != nil {
			return "", err
		}
		if !exists {
			return sku, nil
		}
		counter++
		sku = fmt.Sprintf("%s%04d", p, counter)
	}
}
