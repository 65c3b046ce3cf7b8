package command_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/catalog/usecase/command"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// fakeProductRepo is an in-memory ProductRepository keyed by SKU.
type fakeProductRepo struct {
	products map[string]*domain.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	r.nextID++
	product.ID = r.nextID
	r.products[product.SKU] = product
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if p, ok := r.products[sku]; ok {
		return p, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeProductRepo) FindActive(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindActiveWithStock(ctx context.Context, locationID uint) ([]domain.ProductWithStock, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error {
	r.products[product.SKU] = product
	return nil
}

func (r *fakeProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, ok := r.products[sku]
	return ok, nil
}

func (r *fakeProductRepo) MaxID(ctx context.Context) (uint, error) {
	return r.nextID, nil
}

func (r *fakeProductRepo) CountActive(ctx context.Context) (int64, error) {
	n, _ := r.FindActive(ctx)
	return int64(len(n)), nil
}

func TestCreateProductNormalizesAndStoresSKU(t *testing.T) {
	repo := newFakeProductRepo()
	handler := command.NewCreateProductHandler(repo)

	product, err := handler.Handle(context.Background(), command.CreateProductCommand{
		SKU:          "  cola-330  ",
		Name:         "Cola 330ml",
		SellingPrice: decimal.NewFromFloat(1.5),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if product.SKU != "COLA-330" {
		t.Errorf("sku = %q, want COLA-330 (trimmed, uppercased)", product.SKU)
	}
	if product.Unit != "piece" {
		t.Errorf("unit = %q, want default piece", product.Unit)
	}
	if !product.IsActive {
		t.Error("new product should be active")
	}
}

func TestCreateProductDuplicateSKUConflicts(t *testing.T) {
	repo := newFakeProductRepo()
	handler := command.NewCreateProductHandler(repo)

	if _, err := handler.Handle(context.Background(), command.CreateProductCommand{SKU: "COLA1", Name: "Cola"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := handler.Handle(context.Background(), command.CreateProductCommand{SKU: "cola1", Name: "Other Cola"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestCreateProductGeneratesSKUFromName(t *testing.T) {
	repo := newFakeProductRepo()
	handler := command.NewCreateProductHandler(repo)

	product, err := handler.Handle(context.Background(), command.CreateProductCommand{Name: "Basmati Rice 5kg"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	// Prefix is the first four alphanumerics of the uppercased name.
	if !strings.HasPrefix(product.SKU, "BASM") {
		t.Errorf("sku = %q, want BASM prefix", product.SKU)
	}
	if len(product.SKU) != 8 {
		t.Errorf("sku = %q, want 4-letter prefix plus 4-digit counter", product.SKU)
	}
}

func TestCreateProductGeneratedSKUProbesPastCollisions(t *testing.T) {
	repo := newFakeProductRepo()
	handler := command.NewCreateProductHandler(repo)

	// Occupy the first candidate the generator would produce.
	repo.products["RICE0001"] = &domain.Product{ID: 99, SKU: "RICE0001", Name: "Taken"}

	product, err := handler.Handle(context.Background(), command.CreateProductCommand{Name: "Rice"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if product.SKU == "RICE0001" {
		t.Error("generator reused an occupied SKU")
	}
	if !strings.HasPrefix(product.SKU, "RICE") {
		t.Errorf("sku = %q, want RICE prefix", product.SKU)
	}
}

func TestCreateProductShortNameFallsBackToPRD(t *testing.T) {
	repo := newFakeProductRepo()
	handler := command.NewCreateProductHandler(repo)

	product, err := handler.Handle(context.Background(), command.CreateProductCommand{Name: "!!!"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.HasPrefix(product.SKU, "PRD") {
		t.Errorf("sku = %q, want PRD fallback prefix", product.SKU)
	}
}

func TestCreateProductRejectsEmptyName(t *testing.T) {
	handler := command.NewCreateProductHandler(newFakeProductRepo())
	_, err := handler.Handle(context.Background(), command.CreateProductCommand{Name: "   "})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}
