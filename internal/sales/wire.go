//go:build wireinject
// +build wireinject

package sales

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/sales/delivery/http"
	"github.com/mextra/pos-backend/internal/sales/domain"
	"github.com/mextra/pos-backend/internal/sales/repository"
	"github.com/mextra/pos-backend/kafka"
)

// ProvideSaleRepository provides the sale repository
func ProvideSaleRepository(db *gorm.DB) domain.SaleRepository {
	return repository.NewGormSaleRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSaleRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher) (*http.SalesHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewSalesHandler,
	)
	return nil, nil
}
