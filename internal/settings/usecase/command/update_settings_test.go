package command_test

import (
	"context"
	"testing"

	"github.com/mextra/pos-backend/internal/settings/domain"
	"github.com/mextra/pos-backend/internal/settings/usecase/command"
	"github.com/mextra/pos-backend/internal/settings/usecase/query"
)

// fakeSettingsRepo mimics the singleton row with lazy creation.
type fakeSettingsRepo struct {
	row     *domain.CompanySettings
	creates int
	saves   int
}

func (r *fakeSettingsRepo) GetOrCreate(ctx context.Context) (*domain.CompanySettings, error) {
	if r.row == nil {
		r.creates++
		r.row = &domain.CompanySettings{
			ID:          1,
			CompanyName: "My Company",
			Currency:    "USD",
		}
	}
	copied := *r.row
	return &copied, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings *domain.CompanySettings) error {
	r.saves++
	copied := *settings
	r.row = &copied
	return nil
}

func strp(s string) *string { return &s }

func TestUpdateSettingsPatchesOnlyProvidedFields(t *testing.T) {
	repo := &fakeSettingsRepo{}
	handler := command.NewUpdateSettingsHandler(repo)

	updated, err := handler.Handle(context.Background(), command.UpdateSettingsCommand{
		CompanyName: strp("Mextra Mart"),
		Currency:    strp("EUR"),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if updated.CompanyName != "Mextra Mart" {
		t.Errorf("company_name = %q, want Mextra Mart", updated.CompanyName)
	}
	if updated.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", updated.Currency)
	}
	if updated.ID != 1 {
		t.Errorf("id = %d, want the singleton row 1", updated.ID)
	}

	// A second patch touching one field must keep the first patch intact.
	updated, err = handler.Handle(context.Background(), command.UpdateSettingsCommand{
		ReceiptFooter: strp("Thank you!"),
	})
	if err != nil {
		t.Fatalf("second Handle: %v", err)
	}
	if updated.CompanyName != "Mextra Mart" {
		t.Errorf("company_name = %q after unrelated patch, want Mextra Mart", updated.CompanyName)
	}
	if updated.ReceiptFooter != "Thank you!" {
		t.Errorf("receipt_footer = %q, want Thank you!", updated.ReceiptFooter)
	}

	if repo.creates != 1 {
		t.Errorf("row created %d times, want once", repo.creates)
	}
	if repo.saves != 2 {
		t.Errorf("saves = %d, want 2", repo.saves)
	}
}

func TestGetSettingsCreatesDefaultsOnFirstRead(t *testing.T) {
	repo := &fakeSettingsRepo{}
	handler := query.NewGetSettingsHandler(repo)

	settings, err := handler.Handle(context.Background(), query.GetSettingsQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if settings.CompanyName != "My Company" {
		t.Errorf("company_name = %q, want default My Company", settings.CompanyName)
	}
	if settings.Currency != "USD" {
		t.Errorf("currency = %q, want default USD", settings.Currency)
	}

	// Repeated reads keep serving the same row.
	if _, err := handler.Handle(context.Background(), query.GetSettingsQuery{}); err != nil {
		t.Fatalf("second Handle: %v", err)
	}
	if repo.creates != 1 {
		t.Errorf("row created %d times, want once", repo.creates)
	}
}
