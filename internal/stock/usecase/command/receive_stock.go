package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// ReceiveLine is one incoming goods line
type ReceiveLine struct {
	ProductSKU   string
	Qty          decimal.Decimal
	UnitCost     decimal.Decimal
	LotCode      string
	ExpiryDate   *time.Time
	ToLocationID uint
}

// ReceiveStockCommand represents a goods receipt batch
type ReceiveStockCommand struct {
	Supplier string
	Lines    []ReceiveLine
}

// ReceivedLine reports one appended receipt entry
type ReceivedLine struct {
	ProductSKU string          `json:"sku"`
	ProductID  uint            `json:"product_id"`
	LotID      *uint           `json:"lot_id,omitempty"`
	LocationID uint            `json:"location_id"`
	Qty        decimal.Decimal `json:"qty"`
}

// ReceiveStockHandler handles the goods receipt command
type ReceiveStockHandler struct {
	ledger domain.LedgerRepository
}

// NewReceiveStockHandler creates a new receive stock handler
func NewReceiveStockHandler(ledger domain.LedgerRepository) *ReceiveStockHandler {
	return &ReceiveStockHandler{ledger: ledger}
}

// Handle appends one positive RECEIPT ledger row per line, find-or-creating
// lots as needed. The whole batch commits or rolls back together. Quantity
// sign is not validated here; callers are trusted to send positive receipts.
func (h *ReceiveStockHandler) Handle(ctx context.Context, cmd ReceiveStockCommand) ([]ReceivedLine, error) {
	if len(cmd.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines provided", apperr.ErrInvalidRequest)
	}

	var received []ReceivedLine

	err := h.ledger.InTransaction(ctx, func(tx domain.LedgerTx) error {
		for _, line := range cmd.Lines {
			product, err := tx.ProductBySKU(line.ProductSKU)
			if err != nil {
				return fmt.Errorf("%w: unknown product SKU %s", apperr.ErrNotFound, line.ProductSKU)
			}

			locationID := line.ToLocationID
			if locationID == 0 {
				locationID = 1
			}

			var lotID *uint
			if line.LotCode != "" {
				lot, err := tx.FindOrCreateLot(product.ID, line.LotCode, line.ExpiryDate)
				if err != nil {
					return fmt.Errorf("failed to resolve lot %s: %w", line.LotCode, err)
				}
				lotID = &lot.ID
			}

			unitCost := line.UnitCost
			move := &domain.StockMove{
				ProductID:  product.ID,
				LotID:      lotID,
				LocationID: locationID,
				Qty:        line.Qty,
				UnitCost:   &unitCost,
				MoveType:   domain.MoveTypeReceipt,
				Ref:        "GRN",
			}
			if err := tx.Append(move); err != nil {
				return fmt.Errorf("failed to append receipt move: %w", err)
			}

			received = append(received, ReceivedLine{
				ProductSKU: product.SKU,
				ProductID:  product.ID,
				LotID:      lotID,
				LocationID: locationID,
				Qty:        line.Qty,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return received, nil
}
