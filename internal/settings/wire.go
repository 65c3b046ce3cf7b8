//go:build wireinject
// +build wireinject

package settings

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/settings/delivery/http"
	"github.com/mextra/pos-backend/internal/settings/domain"
	"github.com/mextra/pos-backend/internal/settings/repository"
)

// ProvideSettingsRepository provides the settings repository
func ProvideSettingsRepository(db *gorm.DB) domain.SettingsRepository {
	return repository.NewGormSettingsRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSettingsRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.SettingsHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewSettingsHandler,
	)
	return nil, nil
}
