package query

import (
	"context"

	"github.com/mextra/pos-backend/internal/settings/domain"
)

// GetSettingsQuery fetches the singleton company profile
type GetSettingsQuery struct{}

// GetSettingsHandler handles the settings lookup
type GetSettingsHandler struct {
	settings domain.SettingsRepository
}

// NewGetSettingsHandler creates a new get settings handler
func NewGetSettingsHandler(settings domain.SettingsRepository) *GetSettingsHandler {
	return &GetSettingsHandler{settings: settings}
}

// Handle returns the settings row, creating it with defaults when missing
func (h *GetSettingsHandler) Handle(ctx context.Context, _ GetSettingsQuery) (*domain.CompanySettings, error) {
	return h.settings.GetOrCreate(ctx)
}
