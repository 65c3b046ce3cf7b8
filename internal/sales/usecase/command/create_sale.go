package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/sales/domain"
	stock "github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// SaleLineInput is one requested item: SKU, quantity and the unit price the
// till charged for it
type SaleLineInput struct {
	SKU       string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateSaleCommand represents a complete sale transaction request
type CreateSaleCommand struct {
	CustomerName  *string
	LocationID    uint
	PaymentMethod *string
	Lines         []SaleLineInput
}

// LowStockWarning flags a product the sale left at or below the alert
// threshold at the sale location
type LowStockWarning struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CreateSaleResult is the committed sale summary
type CreateSaleResult struct {
	SaleID    uint              `json:"sale_id"`
	ReceiptNo string            `json:"receipt_no"`
	Total     decimal.Decimal   `json:"total"`
	LowStock  []LowStockWarning `json:"low_stock"`
}

// CreateSaleHandler drives a sale from OPEN through VALIDATING to COMMITTED,
// or ABORTED with every write rolled back
type CreateSaleHandler struct {
	sales domain.SaleRepository
}

// NewCreateSaleHandler creates a new sale handler
func NewCreateSaleHandler(sales domain.SaleRepository) *CreateSaleHandler {
	return &CreateSaleHandler{sales: sales}
}

// Handle validates and commits the sale atomically. Every line is checked
// against availability at the header location; the first failing line aborts
// the whole transaction, discarding the provisional header, all lines and all
// ledger rows appended so far.
func (h *CreateSaleHandler) Handle(ctx context.Context, cmd CreateSaleCommand) (*CreateSaleResult, error) {
	if cmd.LocationID == 0 {
		return nil, fmt.Errorf("%w: location_id is required", apperr.ErrInvalidRequest)
	}
	if len(cmd.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines provided", apperr.ErrInvalidRequest)
	}

	var result *CreateSaleResult

	err := h.sales.InTransaction(ctx, func(tx domain.SaleTx) error {
		if _, err := tx.LocationByID(cmd.LocationID); err != nil {
			return fmt.Errorf("%w: unknown location %d", apperr.ErrNotFound, cmd.LocationID)
		}

		sale := &domain.Sale{
			CustomerName:  cmd.CustomerName,
			LocationID:    cmd.LocationID,
			PaymentMethod: cmd.PaymentMethod,
			Status:        domain.StatusOpen,
			TotalAmount:   decimal.Zero,
		}
		if err := tx.CreateSale(sale); err != nil {
			return fmt.Errorf("failed to create sale header: %w", err)
		}

		year := sale.CreatedAt.Year()
		if sale.CreatedAt.IsZero() {
			year = time.Now().Year()
		}
		receiptNo := fmt.Sprintf("MX-%d-%06d", year, sale.ID)
		sale.ReceiptNo = &receiptNo
		sale.Status = domain.StatusValidating

		total := decimal.Zero
		var lowStock []LowStockWarning

		for _, line := range cmd.Lines {
			product, err := tx.ProductBySKU(line.SKU)
			if err != nil {
				return fmt.Errorf("%w: product not found: %s", apperr.ErrNotFound, line.SKU)
			}

			if !line.Qty.IsPositive() {
				return fmt.Errorf("%w: qty must be > 0", apperr.ErrInvalidRequest)
			}

			// Availability is always evaluated at the header location, the
			// same location every ledger row is written against.
			available, err := tx.AvailableQty(product.ID, cmd.LocationID)
			if err != nil {
				return fmt.Errorf("failed to derive availability: %w", err)
			}
			if line.Qty.GreaterThan(available) {
				return fmt.Errorf("%w: not enough stock for %s at location %d, available %s",
					apperr.ErrInsufficientStock, product.Name, cmd.LocationID, available.StringFixed(3))
			}

			lineTotal := line.Qty.Mul(line.UnitPrice)
			total = total.Add(lineTotal)

			if err := tx.CreateLine(&domain.SaleLine{
				SaleID:    sale.ID,
				ProductID: product.ID,
				Qty:       line.Qty,
				UnitPrice: line.UnitPrice,
				LineTotal: lineTotal,
			}); err != nil {
				return fmt.Errorf("failed to create sale line: %w", err)
			}

			if err := tx.AppendMove(&stock.StockMove{
				ProductID:  product.ID,
				LocationID: cmd.LocationID,
				Qty:        line.Qty.Neg(),
				MoveType:   stock.MoveTypeSale,
				Ref:        fmt.Sprintf("SALE#%d", sale.ID),
			}); err != nil {
				return fmt.Errorf("failed to append sale move: %w", err)
			}

			remaining := available.Sub(line.Qty)
			if remaining.LessThanOrEqual(domain.LowStockThreshold) {
				lowStock = append(lowStock, LowStockWarning{
					SKU:       product.SKU,
					Name:      product.Name,
					Remaining: remaining,
				})
			}
		}

		sale.TotalAmount = total
		sale.Status = domain.StatusCommitted
		if err := tx.UpdateSale(sale); err != nil {
			return fmt.Errorf("failed to commit sale: %w", err)
		}

		result = &CreateSaleResult{
			SaleID:    sale.ID,
			ReceiptNo: receiptNo,
			Total:     total,
			LowStock:  lowStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
