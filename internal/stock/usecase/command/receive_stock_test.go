package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/internal/stock/usecase/command"
	"github.com/mextra/pos-backend/pkg/apperr"
)

func TestReceiveStockAppendsReceiptRowsAndResolvesLots(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedLocation(2, "Backroom")
	ledger.seedProduct(10, "MILK1", "Milk 1L")
	ledger.seedProduct(11, "RICE1", "Rice 5kg")

	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	handler := command.NewReceiveStockHandler(ledger)
	received, err := handler.Handle(context.Background(), command.ReceiveStockCommand{
		Supplier: "Acme Wholesale",
		Lines: []command.ReceiveLine{
			{ProductSKU: "MILK1", Qty: dec("24"), UnitCost: dec("0.80"), LotCode: "B-2026-01", ExpiryDate: &expiry, ToLocationID: 2},
			{ProductSKU: "RICE1", Qty: dec("10"), UnitCost: dec("4.50")},
		},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("received lines = %d, want 2", len(received))
	}

	if len(ledger.moves) != 2 {
		t.Fatalf("moves = %d, want 2", len(ledger.moves))
	}
	for _, m := range ledger.moves {
		if m.MoveType != domain.MoveTypeReceipt {
			t.Errorf("move type = %q, want %q", m.MoveType, domain.MoveTypeReceipt)
		}
		if m.Ref != "GRN" {
			t.Errorf("move ref = %q, want GRN", m.Ref)
		}
		if !m.Qty.IsPositive() {
			t.Errorf("receipt qty = %s, want positive", m.Qty)
		}
	}

	// First line: explicit location, lot created with expiry.
	if ledger.moves[0].LocationID != 2 {
		t.Errorf("line 1 location = %d, want 2", ledger.moves[0].LocationID)
	}
	if ledger.moves[0].LotID == nil {
		t.Fatal("line 1 lot id is nil, want created lot")
	}
	if len(ledger.lots) != 1 {
		t.Fatalf("lots = %d, want 1", len(ledger.lots))
	}
	if ledger.lots[0].LotCode != "B-2026-01" || ledger.lots[0].ExpiryDate == nil {
		t.Errorf("lot = %+v, want code B-2026-01 with expiry", ledger.lots[0])
	}

	// Second line: no lot, location defaulted to 1.
	if ledger.moves[1].LocationID != 1 {
		t.Errorf("line 2 location = %d, want default 1", ledger.moves[1].LocationID)
	}
	if ledger.moves[1].LotID != nil {
		t.Errorf("line 2 lot id = %v, want nil", ledger.moves[1].LotID)
	}
}

func TestReceiveStockReusesExistingLot(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedProduct(10, "MILK1", "Milk 1L")

	handler := command.NewReceiveStockHandler(ledger)
	for i := 0; i < 2; i++ {
		if _, err := handler.Handle(context.Background(), command.ReceiveStockCommand{
			Lines: []command.ReceiveLine{{ProductSKU: "MILK1", Qty: dec("5"), LotCode: "B-01"}},
		}); err != nil {
			t.Fatalf("Handle #%d: %v", i+1, err)
		}
	}

	if len(ledger.lots) != 1 {
		t.Errorf("lots = %d, want the same lot reused", len(ledger.lots))
	}
	if len(ledger.moves) != 2 {
		t.Fatalf("moves = %d, want 2", len(ledger.moves))
	}
	if ledger.moves[0].LotID == nil || ledger.moves[1].LotID == nil ||
		*ledger.moves[0].LotID != *ledger.moves[1].LotID {
		t.Error("both receipts should reference the same lot")
	}
}

func TestReceiveStockUnknownSKURollsBackBatch(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedProduct(10, "MILK1", "Milk 1L")

	handler := command.NewReceiveStockHandler(ledger)
	_, err := handler.Handle(context.Background(), command.ReceiveStockCommand{
		Lines: []command.ReceiveLine{
			{ProductSKU: "MILK1", Qty: dec("5")},
			{ProductSKU: "NOPE", Qty: dec("5")},
		},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(ledger.moves) != 0 {
		t.Errorf("moves = %d, want 0 (whole batch rolled back)", len(ledger.moves))
	}
}

func TestReceiveStockRejectsEmptyBatch(t *testing.T) {
	handler := command.NewReceiveStockHandler(newFakeLedger())
	_, err := handler.Handle(context.Background(), command.ReceiveStockCommand{})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}
