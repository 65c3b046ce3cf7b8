package query

import (
	"context"
	"fmt"

	"github.com/mextra/pos-backend/internal/catalog/domain"
)

// ProductsWithStockQuery represents the query for products plus availability
type ProductsWithStockQuery struct {
	LocationID uint
}

// ProductsWithStockHandler handles the products-with-stock query
type ProductsWithStockHandler struct {
	repo domain.ProductRepository
}

// NewProductsWithStockHandler creates a new products-with-stock handler
func NewProductsWithStockHandler(repo domain.ProductRepository) *ProductsWithStockHandler {
	return &ProductsWithStockHandler{repo: repo}
}

// Handle returns active products with the summed ledger quantity at the
// requested location. Location defaults to 1, matching the POS front counter.
func (h *ProductsWithStockHandler) Handle(ctx context.Context, q ProductsWithStockQuery) ([]domain.ProductWithStock, error) {
	locationID := q.LocationID
	if locationID == 0 {
		locationID = 1
	}

	rows, err := h.repo.FindActiveWithStock(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products with stock: %w", err)
	}
	return rows, nil
}
