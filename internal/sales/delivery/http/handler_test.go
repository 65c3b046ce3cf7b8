package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	catalog "github.com/mextra/pos-backend/internal/catalog/domain"
	saleshttp "github.com/mextra/pos-backend/internal/sales/delivery/http"
	"github.com/mextra/pos-backend/internal/sales/domain"
	stock "github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

type stockKey struct {
	productID  uint
	locationID uint
}

// memSaleRepo backs the handler tests with an in-memory SaleRepository.
type memSaleRepo struct {
	products  map[string]*catalog.Product
	locations map[uint]*catalog.Location
	opening   map[stockKey]decimal.Decimal

	sales []domain.Sale
	lines []domain.SaleLine
	moves []stock.StockMove
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{
		products:  make(map[string]*catalog.Product),
		locations: make(map[uint]*catalog.Location),
		opening:   make(map[stockKey]decimal.Decimal),
	}
}

func (r *memSaleRepo) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	for i := range r.sales {
		if r.sales[i].ID == id {
			sale := r.sales[i]
			return &sale, nil
		}
	}
	return nil, fmt.Errorf("%w: sale %d", apperr.ErrNotFound, id)
}

func (r *memSaleRepo) LineDetails(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error) {
	var details []domain.SaleLineDetail
	for _, line := range r.lines {
		if line.SaleID == saleID {
			details = append(details, domain.SaleLineDetail{
				Qty:       line.Qty,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
			})
		}
	}
	return details, nil
}

func (r *memSaleRepo) History(ctx context.Context, startDate, endDate time.Time, limit int) ([]domain.SaleHistoryRow, error) {
	var rows []domain.SaleHistoryRow
	for _, s := range r.sales {
		rows = append(rows, domain.SaleHistoryRow{
			ID:         s.ID,
			CreatedAt:  s.CreatedAt,
			LocationID: s.LocationID,
			ReceiptNo:  s.ReceiptNo,
			Total:      s.TotalAmount,
		})
	}
	return rows, nil
}

func (r *memSaleRepo) InTransaction(ctx context.Context, fn func(tx domain.SaleTx) error) error {
	tx := &memSaleTx{
		repo:  r,
		sales: append([]domain.Sale{}, r.sales...),
		lines: append([]domain.SaleLine{}, r.lines...),
		moves: append([]stock.StockMove{}, r.moves...),
	}
	if err := fn(tx); err != nil {
		return err
	}
	r.sales, r.lines, r.moves = tx.sales, tx.lines, tx.moves
	return nil
}

type memSaleTx struct {
	repo  *memSaleRepo
	sales []domain.Sale
	lines []domain.SaleLine
	moves []stock.StockMove
}

func (tx *memSaleTx) ProductBySKU(sku string) (*catalog.Product, error) {
	if p, ok := tx.repo.products[sku]; ok {
		prod := *p
		return &prod, nil
	}
	return nil, fmt.Errorf("record not found")
}

func (tx *memSaleTx) LocationByID(id uint) (*catalog.Location, error) {
	if l, ok := tx.repo.locations[id]; ok {
		loc := *l
		return &loc, nil
	}
	return nil, fmt.Errorf("record not found")
}

func (tx *memSaleTx) AvailableQty(productID, locationID uint) (decimal.Decimal, error) {
	total := tx.repo.opening[stockKey{productID, locationID}]
	for _, m := range tx.moves {
		if m.ProductID == productID && m.LocationID == locationID {
			total = total.Add(m.Qty)
		}
	}
	return total, nil
}

func (tx *memSaleTx) CreateSale(sale *domain.Sale) error {
	sale.ID = uint(len(tx.sales) + 1)
	sale.CreatedAt = time.Now()
	tx.sales = append(tx.sales, *sale)
	return nil
}

func (tx *memSaleTx) UpdateSale(sale *domain.Sale) error {
	for i := range tx.sales {
		if tx.sales[i].ID == sale.ID {
			tx.sales[i] = *sale
			return nil
		}
	}
	return fmt.Errorf("record not found")
}

func (tx *memSaleTx) CreateLine(line *domain.SaleLine) error {
	line.ID = uint(len(tx.lines) + 1)
	tx.lines = append(tx.lines, *line)
	return nil
}

func (tx *memSaleTx) AppendMove(move *stock.StockMove) error {
	move.ID = uint(len(tx.moves) + 1)
	tx.moves = append(tx.moves, *move)
	return nil
}

// One handler for the whole test binary; the constructor registers
// Prometheus collectors on the default registry and must run once.
func TestSalesEndpoints(t *testing.T) {
	repo := newMemSaleRepo()
	repo.locations[1] = &catalog.Location{ID: 1, Name: "Main Store"}
	repo.products["COLA1"] = &catalog.Product{ID: 10, SKU: "COLA1", Name: "Cola 330ml", IsActive: true}
	repo.opening[stockKey{10, 1}] = decimal.NewFromInt(10)

	handler := saleshttp.NewSalesHandler(repo, nil)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("create sale commits and returns receipt", func(t *testing.T) {
		rec := do("POST", "/api/sales", `{
			"location_id": 1,
			"payment_method": "cash",
			"lines": [{"sku": "COLA1", "qty": "2", "unit_price": "1.50"}]
		}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
		}

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				SaleID    uint            `json:"sale_id"`
				ReceiptNo string          `json:"receipt_no"`
				Total     decimal.Decimal `json:"total"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Success {
			t.Error("success = false")
		}
		if !strings.HasPrefix(resp.Data.ReceiptNo, "MX-") {
			t.Errorf("receipt_no = %q, want MX- prefix", resp.Data.ReceiptNo)
		}
		if !resp.Data.Total.Equal(decimal.NewFromInt(3)) {
			t.Errorf("total = %s, want 3", resp.Data.Total)
		}
	})

	t.Run("insufficient stock returns conflict", func(t *testing.T) {
		rec := do("POST", "/api/sales", `{
			"location_id": 1,
			"lines": [{"sku": "COLA1", "qty": "100", "unit_price": "1.50"}]
		}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body)
		}
	})

	t.Run("unknown sku returns not found", func(t *testing.T) {
		rec := do("POST", "/api/sales", `{
			"location_id": 1,
			"lines": [{"sku": "NOPE", "qty": "1", "unit_price": "1.00"}]
		}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body)
		}
	})

	t.Run("malformed body returns bad request", func(t *testing.T) {
		rec := do("POST", "/api/sales", `{"location_id": `)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("get sale recomputes total from lines", func(t *testing.T) {
		rec := do("GET", "/api/sales/1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}
		var resp struct {
			Data struct {
				Sale struct {
					Total decimal.Decimal `json:"total"`
				} `json:"sale"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Data.Sale.Total.Equal(decimal.NewFromInt(3)) {
			t.Errorf("total = %s, want 3", resp.Data.Sale.Total)
		}
	})

	t.Run("missing sale returns not found", func(t *testing.T) {
		if rec := do("GET", "/api/sales/999", ""); rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("history with bad dates returns empty list", func(t *testing.T) {
		rec := do("GET", "/api/sales/history?start_date=bogus&end_date=2025-01-31", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}
		var resp struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if strings.TrimSpace(string(resp.Data)) != "[]" {
			t.Errorf("data = %s, want []", resp.Data)
		}
	})
}
