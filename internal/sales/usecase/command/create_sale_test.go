package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/sales/domain"
	"github.com/mextra/pos-backend/internal/sales/usecase/command"
	stock "github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

type stockKey struct {
	productID  uint
	locationID uint
}

// fakeSaleStore is an in-memory SaleRepository. InTransaction runs the
// callback against a snapshot and only merges it back on success, so a
// failed sale leaves the committed state untouched.
type fakeSaleStore struct {
	products  map[string]*catalog.Product
	locations map[uint]*catalog.Location
	opening   map[stockKey]decimal.Decimal

	sales []domain.Sale
	lines []domain.SaleLine
	moves []stock.StockMove
}

func newFakeSaleStore() *fakeSaleStore {
	return &fakeSaleStore{
		products:  make(map[string]*catalog.Product),
		locations: make(map[uint]*catalog.Location),
		opening:   make(map[stockKey]decimal.Decimal),
	}
}

func (s *fakeSaleStore) seedProduct(id uint, sku, name string) {
	s.products[sku] = &catalog.Product{ID: id, SKU: sku, Name: name, IsActive: true}
}

func (s *fakeSaleStore) seedLocation(id uint, name string) {
	s.locations[id] = &catalog.Location{ID: id, Name: name}
}

func (s *fakeSaleStore) seedStock(productID, locationID uint, qty int64) {
	s.opening[stockKey{productID, locationID}] = decimal.NewFromInt(qty)
}

func (s *fakeSaleStore) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	for i := range s.sales {
		if s.sales[i].ID == id {
			sale := s.sales[i]
			return &sale, nil
		}
	}
	return nil, fmt.Errorf("%w: sale %d", apperr.ErrNotFound, id)
}

func (s *fakeSaleStore) LineDetails(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error) {
	var details []domain.SaleLineDetail
	for _, line := range s.lines {
		if line.SaleID != saleID {
			continue
		}
		details = append(details, domain.SaleLineDetail{
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return details, nil
}

func (s *fakeSaleStore) History(ctx context.Context, startDate, endDate time.Time, limit int) ([]domain.SaleHistoryRow, error) {
	return nil, nil
}

func (s *fakeSaleStore) InTransaction(ctx context.Context, fn func(tx domain.SaleTx) error) error {
	tx := &fakeSaleTx{
		store: s,
		sales: append([]domain.Sale{}, s.sales...),
		lines: append([]domain.SaleLine{}, s.lines...),
		moves: append([]stock.StockMove{}, s.moves...),
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.sales, s.lines, s.moves = tx.sales, tx.lines, tx.moves
	return nil
}

type fakeSaleTx struct {
	store *fakeSaleStore
	sales []domain.Sale
	lines []domain.SaleLine
	moves []stock.StockMove
}

func (tx *fakeSaleTx) ProductBySKU(sku string) (*catalog.Product, error) {
	if p, ok := tx.store.products[sku]; ok {
		prod := *p
		return &prod, nil
	}
	return nil, errors.New("record not found")
}

func (tx *fakeSaleTx) LocationByID(id uint) (*catalog.Location, error) {
	if l, ok := tx.store.locations[id]; ok {
		loc := *l
		return &loc, nil
	}
	return nil, errors.New("record not found")
}

// AvailableQty sums the seeded opening balance with every move appended so
// far in this transaction, matching read-your-own-writes inside a DB tx.
func (tx *fakeSaleTx) AvailableQty(productID, locationID uint) (decimal.Decimal, error) {
	total := tx.store.opening[stockKey{productID, locationID}]
	for _, m := range tx.moves {
		if m.ProductID == productID && m.LocationID == locationID {
			total = total.Add(m.Qty)
		}
	}
	return total, nil
}

func (tx *fakeSaleTx) CreateSale(sale *domain.Sale) error {
	sale.ID = uint(len(tx.sales) + 1)
	sale.CreatedAt = time.Now()
	tx.sales = append(tx.sales, *sale)
	return nil
}

func (tx *fakeSaleTx) UpdateSale(sale *domain.Sale) error {
	for i := range tx.sales {
		if tx.sales[i].ID == sale.ID {
			tx.sales[i] = *sale
			return nil
		}
	}
	return errors.New("record not found")
}

func (tx *fakeSaleTx) CreateLine(line *domain.SaleLine) error {
	line.ID = uint(len(tx.lines) + 1)
	tx.lines = append(tx.lines, *line)
	return nil
}

func (tx *fakeSaleTx) AppendMove(move *stock.StockMove) error {
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

func TestCreateSaleCommitsHeaderLinesAndMoves(t *testing.T) {
	store := newFakeSaleStore()
	store.seedLocation(1, "Main Store")
	store.seedProduct(10, "COLA1", "Cola 330ml")
	store.seedProduct(11, "CHIP1", "Potato Chips")
	store.seedStock(10, 1, 20)
	store.seedStock(11, 1, 20)

	handler := command.NewCreateSaleHandler(store)
	result, err := handler.Handle(context.Background(), command.CreateSaleCommand{
		LocationID: 1,
		Lines: []command.SaleLineInput{
			{SKU: "COLA1", Qty: dec("2"), UnitPrice: dec("1.50")},
			{SKU: "CHIP1", Qty: dec("3"), UnitPrice: dec("2.00")},
		},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !result.Total.Equal(dec("9.00")) {
		t.Errorf("total = %s, want 9.00", result.Total)
	}
	wantReceipt := fmt.Sprintf("MX-%d-%06d", time.Now().Year(), result.SaleID)
	if result.ReceiptNo != wantReceipt {
		t.Errorf("receipt_no = %q, want %q", result.ReceiptNo, wantReceipt)
	}

	if len(store.sales) != 1 {
		t.Fatalf("persisted sales = %d, want 1", len(store.sales))
	}
	sale := store.sales[0]
	if sale.Status != domain.StatusCommitted {
		t.Errorf("status = %q, want %q", sale.Status, domain.StatusCommitted)
	}
	if sale.ReceiptNo == nil || *sale.ReceiptNo != wantReceipt {
		t.Errorf("persisted receipt_no = %v, want %q", sale.ReceiptNo, wantReceipt)
	}
	if !sale.TotalAmount.Equal(dec("9.00")) {
		t.Errorf("persisted total = %s, want 9.00", sale.TotalAmount)
	}

	if len(store.lines) != 2 {
		t.Fatalf("persisted lines = %d, want 2", len(store.lines))
	}
	if len(store.moves) != 2 {
		t.Fatalf("persisted moves = %d, want 2", len(store.moves))
	}
	for _, m := range store.moves {
		if m.MoveType != stock.MoveTypeSale {
			t.Errorf("move type = %q, want %q", m.MoveType, stock.MoveTypeSale)
		}
		if m.Ref != fmt.Sprintf("SALE#%d", sale.ID) {
			t.Errorf("move ref = %q, want SALE#%d", m.Ref, sale.ID)
		}
		if !m.Qty.IsNegative() {
			t.Errorf("sale move qty = %s, want negative", m.Qty)
		}
	}
}

func TestCreateSaleInsufficientStockAbortsWithoutWrites(t *testing.T) {
	store := newFakeSaleStore()
	store.seedLocation(1, "Main Store")
	store.seedProduct(10, "COLA1", "Cola 330ml")
	store.seedProduct(11, "CHIP1", "Potato Chips")
	store.seedStock(10, 1, 20)
	store.seedStock(11, 1, 2)

	handler := command.NewCreateSaleHandler(store)
	_, err := handler.Handle(context.Background(), command.CreateSaleCommand{
		LocationID: 1,
		Lines: []command.SaleLineInput{
			// First line is valid; the second must still roll it back.
			{SKU: "COLA1", Qty: dec("1"), UnitPrice: dec("1.50")},
			{SKU: "CHIP1", Qty: dec("5"), UnitPrice: dec("2.00")},
		},
	})
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if len(store.sales) != 0 {
		t.Errorf("persisted sales = %d, want 0 after abort", len(store.sales))
	}
	if len(store.lines) != 0 {
		t.Errorf("persisted lines = %d, want 0 after abort", len(store.lines))
	}
	if len(store.moves) != 0 {
		t.Errorf("persisted moves = %d, want 0 after abort", len(store.moves))
	}
}

func TestCreateSaleRepeatedSKUSeesInTransactionDepletion(t *testing.T) {
	store := newFakeSaleStore()
	store.seedLocation(1, "Main Store")
	store.seedProduct(10, "COLA1", "Cola 330ml")
	store.seedStock(10, 1, 10)

	handler := command.NewCreateSaleHandler(store)
	_, err := handler.Handle(context.Background(), command.CreateSaleCommand{
		LocationID: 1,
		Lines: []command.SaleLineInput{
			{SKU: "COLA1", Qty: dec("6"), UnitPrice: dec("1.00")},
			{SKU: "COLA1", Qty: dec("6"), UnitPrice: dec("1.00")},
		},
	})
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock for second line", err)
	}
	if len(store.moves) != 0 {
		t.Errorf("persisted moves = %d, want 0 after abort", len(store.moves))
	}
}

func TestCreateSaleLowStockWarningBoundary(t *testing.T) {
	cases := []struct {
		name     string
		opening  int64
		qty      string
		wantWarn bool
	}{
		{"remaining exactly at threshold warns", 10, "5", true},
		{"remaining above threshold stays quiet", 10, "4", false},
		{"remaining zero warns", 5, "5", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeSaleStore()
			store.seedLocation(1, "Main Store")
			store.seedProduct(10, "COLA1", "Cola 330ml")
			store.seedStock(10, 1, tc.opening)

			handler := command.NewCreateSaleHandler(store)
			result, err := handler.Handle(context.Background(), command.CreateSaleCommand{
				LocationID: 1,
				Lines:      []command.SaleLineInput{{SKU: "COLA1", Qty: dec(tc.qty), UnitPrice: dec("1.00")}},
			})
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}

			if tc.wantWarn {
				if len(result.LowStock) != 1 {
					t.Fatalf("low stock warnings = %d, want 1", len(result.LowStock))
				}
				warn := result.LowStock[0]
				if warn.SKU != "COLA1" {
					t.Errorf("warning sku = %q, want COLA1", warn.SKU)
				}
				wantRemaining := decimal.NewFromInt(tc.opening).Sub(dec(tc.qty))
				if !warn.Remaining.Equal(wantRemaining) {
					t.Errorf("warning remaining = %s, want %s", warn.Remaining, wantRemaining)
				}
			} else if len(result.LowStock) != 0 {
				t.Fatalf("low stock warnings = %d, want 0", len(result.LowStock))
			}
		})
	}
}

func TestCreateSaleRejectsBadInput(t *testing.T) {
	store := newFakeSaleStore()
	store.seedLocation(1, "Main Store")
	store.seedProduct(10, "COLA1", "Cola 330ml")
	store.seedStock(10, 1, 10)
	handler := command.NewCreateSaleHandler(store)

	_, err := handler.Handle(context.Background(), command.CreateSaleCommand{
		Lines: []command.SaleLineInput{{SKU: "COLA1", Qty: dec("1"), UnitPrice: dec("1.00")}},
	})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("missing location: err = %v, want ErrInvalidRequest", err)
	}

	_, err = handler.Handle(context.Background(), command.CreateSaleCommand{LocationID: 1})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("empty lines: err = %v, want ErrInvalidRequest", err)
	}

	_, err = handler.Handle(context.Background(), command.CreateSaleCommand{
		LocationID: 1,
		Lines:      []command.SaleLineInput{{SKU: "COLA1", Qty: dec("0"), UnitPrice: dec("1.00")}},
	})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("zero qty: err = %v, want ErrInvalidRequest", err)
	}

	_, err = handler.Handle(context.Background(), command.CreateSaleCommand{
		LocationID: 1,
		Lines:      []command.SaleLineInput{{SKU: "NOPE", Qty: dec("1"), UnitPrice: dec("1.00")}},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown sku: err = %v, want ErrNotFound", err)
	}

	_, err = handler.Handle(context.Background(), command.CreateSaleCommand{
		LocationID: 99,
		Lines:      []command.SaleLineInput{{SKU: "COLA1", Qty: dec("1"), UnitPrice: dec("1.00")}},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown location: err = %v, want ErrNotFound", err)
	}
}
