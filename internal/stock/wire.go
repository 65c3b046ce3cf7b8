//go:build wireinject
// +build wireinject

package stock

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/stock/delivery/http"
	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/internal/stock/repository"
	"github.com/mextra/pos-backend/kafka"
)

// ProvideLedgerRepository provides the movement ledger repository
func ProvideLedgerRepository(db *gorm.DB) domain.LedgerRepository {
	return repository.NewGormLedgerRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideLedgerRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher) (*http.StockHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewStockHandler,
	)
	return nil, nil
}
