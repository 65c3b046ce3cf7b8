package command_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/internal/stock/usecase/command"
	"github.com/mextra/pos-backend/pkg/apperr"
)

type stockKey struct {
	productID  uint
	locationID uint
}

// fakeLedger is an in-memory LedgerRepository. Appends made inside a failed
// transaction are discarded, mirroring a rolled back DB transaction.
type fakeLedger struct {
	products  map[string]*catalog.Product
	locations map[uint]*catalog.Location
	opening   map[stockKey]decimal.Decimal

	moves []domain.StockMove
	lots  []domain.Lot
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		products:  make(map[string]*catalog.Product),
		locations: make(map[uint]*catalog.Location),
		opening:   make(map[stockKey]decimal.Decimal),
	}
}

func (l *fakeLedger) seedProduct(id uint, sku, name string) {
	l.products[sku] = &catalog.Product{ID: id, SKU: sku, Name: name, IsActive: true}
}

func (l *fakeLedger) seedLocation(id uint, name string) {
	l.locations[id] = &catalog.Location{ID: id, Name: name}
}

func (l *fakeLedger) seedStock(productID, locationID uint, qty int64) {
	l.opening[stockKey{productID, locationID}] = decimal.NewFromInt(qty)
}

func (l *fakeLedger) AvailableQty(ctx context.Context, productID, locationID uint) (decimal.Decimal, error) {
	total := l.opening[stockKey{productID, locationID}]
	for _, m := range l.moves {
		if m.ProductID == productID && m.LocationID == locationID {
			total = total.Add(m.Qty)
		}
	}
	return total, nil
}

func (l *fakeLedger) InTransaction(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	tx := &fakeLedgerTx{
		ledger: l,
		moves:  append([]domain.StockMove{}, l.moves...),
		lots:   append([]domain.Lot{}, l.lots...),
	}
	if err := fn(tx); err != nil {
		return err
	}
	l.moves, l.lots = tx.moves, tx.lots
	return nil
}

type fakeLedgerTx struct {
	ledger *fakeLedger
	moves  []domain.StockMove
	lots   []domain.Lot
}

func (tx *fakeLedgerTx) ProductBySKU(sku string) (*catalog.Product, error) {
	if p, ok := tx.ledger.products[sku]; ok {
		prod := *p
		return &prod, nil
	}
	return nil, errors.New("record not found")
}

func (tx *fakeLedgerTx) LocationByID(id uint) (*catalog.Location, error) {
	if l, ok := tx.ledger.locations[id]; ok {
		loc := *l
		return &loc, nil
	}
	return nil, errors.New("record not found")
}

func (tx *fakeLedgerTx) AvailableQty(productID, locationID uint) (decimal.Decimal, error) {
	total := tx.ledger.opening[stockKey{productID, locationID}]
	for _, m := range tx.moves {
		if m.ProductID == productID && m.LocationID == locationID {
			total = total.Add(m.Qty)
		}
	}
	return total, nil
}

func (tx *fakeLedgerTx) FindOrCreateLot(productID uint, lotCode string, expiryDate *time.Time) (*domain.Lot, error) {
	for i := range tx.lots {
		if tx.lots[i].ProductID == productID && tx.lots[i].LotCode == lotCode {
			lot := tx.lots[i]
			return &lot, nil
		}
	}
	lot := domain.Lot{
		ID:         uint(len(tx.lots) + 1),
		ProductID:  productID,
		LotCode:    lotCode,
		ExpiryDate: expiryDate,
	}
	tx.lots = append(tx.lots, lot)
	return &lot, nil
}

func (tx *fakeLedgerTx) Append(move *domain.StockMove) error {
	move.ID = uint(len(tx.moves) + 1)
	tx.moves = append(tx.moves, *move)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTransferAppendsBalancedPairsSharingOneRef(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedLocation(2, "Backroom")
	ledger.seedProduct(10, "COLA1", "Cola 330ml")
	ledger.seedProduct(11, "CHIP1", "Potato Chips")
	ledger.seedStock(10, 1, 20)
	ledger.seedStock(11, 1, 8)

	handler := command.NewTransferStockHandler(ledger)
	result, err := handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   2,
		Lines: []command.TransferLine{
			{ProductSKU: "COLA1", Qty: dec("5")},
			{ProductSKU: "CHIP1", Qty: dec("3")},
		},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.HasPrefix(result.Ref, "TRANSFER-") {
		t.Errorf("ref = %q, want TRANSFER- prefix", result.Ref)
	}
	if result.FromLocation != "Main Store" || result.ToLocation != "Backroom" {
		t.Errorf("locations = %q -> %q", result.FromLocation, result.ToLocation)
	}

	if len(ledger.moves) != 4 {
		t.Fatalf("moves = %d, want 4 (one OUT/IN pair per line)", len(ledger.moves))
	}
	net := decimal.Zero
	for _, m := range ledger.moves {
		if m.Ref != result.Ref {
			t.Errorf("move ref = %q, want %q", m.Ref, result.Ref)
		}
		if m.MoveType != domain.MoveTypeTransferOut && m.MoveType != domain.MoveTypeTransferIn {
			t.Errorf("move type = %q", m.MoveType)
		}
		net = net.Add(m.Qty)
	}
	if !net.IsZero() {
		t.Errorf("net quantity across all moves = %s, want 0", net)
	}

	// Remaining at source reflects the committed appends.
	if got := result.Lines[0].RemainingAtSrc; !got.Equal(dec("15")) {
		t.Errorf("COLA1 remaining = %s, want 15", got)
	}
	if got := result.Lines[1].RemainingAtSrc; !got.Equal(dec("5")) {
		t.Errorf("CHIP1 remaining = %s, want 5", got)
	}
}

func TestTransferInsufficientStockWritesNothing(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedLocation(2, "Backroom")
	ledger.seedProduct(10, "COLA1", "Cola 330ml")
	ledger.seedProduct(11, "CHIP1", "Potato Chips")
	ledger.seedStock(10, 1, 20)
	ledger.seedStock(11, 1, 1)

	handler := command.NewTransferStockHandler(ledger)
	_, err := handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   2,
		Lines: []command.TransferLine{
			{ProductSKU: "COLA1", Qty: dec("5")},
			{ProductSKU: "CHIP1", Qty: dec("3")},
		},
	})
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if len(ledger.moves) != 0 {
		t.Errorf("moves = %d, want 0 (validate all before writing)", len(ledger.moves))
	}
}

func TestTransferValidatesRepeatedSKUAgainstOpeningBalance(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedLocation(2, "Backroom")
	ledger.seedProduct(10, "COLA1", "Cola 330ml")
	ledger.seedStock(10, 1, 10)

	handler := command.NewTransferStockHandler(ledger)
	// Two lines of 6 against 10 on hand: each line is checked against the
	// opening balance, so the transfer goes through and the source ends
	// negative. The guard is per line, not cumulative.
	result, err := handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   2,
		Lines: []command.TransferLine{
			{ProductSKU: "COLA1", Qty: dec("6")},
			{ProductSKU: "COLA1", Qty: dec("6")},
		},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(ledger.moves) != 4 {
		t.Fatalf("moves = %d, want 4", len(ledger.moves))
	}
	if got := result.Lines[1].RemainingAtSrc; !got.Equal(dec("-2")) {
		t.Errorf("remaining after both lines = %s, want -2", got)
	}
}

func TestTransferRejectsSameLocationAndBadLines(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedLocation(1, "Main Store")
	ledger.seedLocation(2, "Backroom")
	ledger.seedProduct(10, "COLA1", "Cola 330ml")
	ledger.seedStock(10, 1, 10)
	handler := command.NewTransferStockHandler(ledger)

	_, err := handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   1,
		Lines:          []command.TransferLine{{ProductSKU: "COLA1", Qty: dec("1")}},
	})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("same location: err = %v, want ErrInvalidRequest", err)
	}

	_, err = handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   2,
	})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("empty lines: err = %v, want ErrInvalidRequest", err)
	}

	_, err = handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   2,
		Lines:          []command.TransferLine{{ProductSKU: "COLA1", Qty: dec("-2")}},
	})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("negative qty: err = %v, want ErrInvalidRequest", err)
	}

	_, err = handler.Handle(context.Background(), command.TransferStockCommand{
		FromLocationID: 1,
		ToLocationID:   9,
		Lines:          []command.TransferLine{{ProductSKU: "COLA1", Qty: dec("1")}},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown destination: err = %v, want ErrNotFound", err)
	}
}
