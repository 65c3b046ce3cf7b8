//go:build wireinject
// +build wireinject

package reports

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/reports/delivery/http"
	"github.com/mextra/pos-backend/internal/reports/domain"
	"github.com/mextra/pos-backend/internal/reports/repository"
	salesdomain "github.com/mextra/pos-backend/internal/sales/domain"
	salesrepo "github.com/mextra/pos-backend/internal/sales/repository"
)

// ProvideReportRepository provides the report repository
func ProvideReportRepository(db *gorm.DB) domain.ReportRepository {
	return repository.NewGormReportRepository(db)
}

// ProvideSaleRepository provides the sale repository for history reads
func ProvideSaleRepository(db *gorm.DB) salesdomain.SaleRepository {
	return salesrepo.NewGormSaleRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideReportRepository,
	ProvideSaleRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.ReportsHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewReportsHandler,
	)
	return nil, nil
}
