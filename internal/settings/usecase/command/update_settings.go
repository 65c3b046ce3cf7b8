package command

import (
	"context"

	"github.com/mextra/pos-backend/internal/settings/domain"
)

// UpdateSettingsCommand patches the company profile. Nil fields are left
// unchanged.
type UpdateSettingsCommand struct {
	CompanyName   *string
	Address       *string
	Phone         *string
	Email         *string
	TaxID         *string
	Currency      *string
	ReceiptFooter *string
}

// UpdateSettingsHandler handles the settings update command
type UpdateSettingsHandler struct {
	settings domain.SettingsRepository
}

// NewUpdateSettingsHandler creates a new update settings handler
func NewUpdateSettingsHandler(settings domain.SettingsRepository) *UpdateSettingsHandler {
	return &UpdateSettingsHandler{settings: settings}
}

// Handle applies the patch onto the singleton row, creating it first when
// missing
func (h *UpdateSettingsHandler) Handle(ctx context.Context, cmd UpdateSettingsCommand) (*domain.CompanySettings, error) {
	settings, err := h.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if cmd.CompanyName != nil {
		settings.CompanyName = *cmd.CompanyName
	}
	if cmd.Address != nil {
		settings.Address = *cmd.Address
	}
	if cmd.Phone != nil {
		settings.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		settings.Email = *cmd.Email
	}
	if cmd.TaxID != nil {
		settings.TaxID = *cmd.TaxID
	}
	if cmd.Currency != nil {
		settings.Currency = *cmd.Currency
	}
	if cmd.ReceiptFooter != nil {
		settings.ReceiptFooter = *cmd.ReceiptFooter
	}

	if err := h.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
