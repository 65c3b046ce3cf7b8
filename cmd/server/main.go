package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/mextra/pos-backend/internal/catalog/domain"
	cataloghttp "github.com/mextra/pos-backend/internal/catalog/delivery/http"
	catalogrepo "github.com/mextra/pos-backend/internal/catalog/repository"
	reportshttp "github.com/mextra/pos-backend/internal/reports/delivery/http"
	reportsrepo "github.com/mextra/pos-backend/internal/reports/repository"
	saleshttp "github.com/mextra/pos-backend/internal/sales/delivery/http"
	salesrepo "github.com/mextra/pos-backend/internal/sales/repository"
	settingshttp "github.com/mextra/pos-backend/internal/settings/delivery/http"
	settingsrepo "github.com/mextra/pos-backend/internal/settings/repository"
	stockhttp "github.com/mextra/pos-backend/internal/stock/delivery/http"
	stockrepo "github.com/mextra/pos-backend/internal/stock/repository"
	userdomain "github.com/mextra/pos-backend/internal/user/domain"
	userhttp "github.com/mextra/pos-backend/internal/user/delivery/http"
	userrepo "github.com/mextra/pos-backend/internal/user/repository"
	"github.com/mextra/pos-backend/kafka"
	"github.com/mextra/pos-backend/pkg/database"
	"github.com/mextra/pos-backend/pkg/logger"
	"github.com/mextra/pos-backend/pkg/tracing"
)

func main() {
	// Quantities and prices serialize as bare JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "pos-backend")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting POS backend")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "posdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Repositories
	productRepo := catalogrepo.NewGormProductRepository(db)
	locationRepo := catalogrepo.NewGormLocationRepository(db)
	ledgerRepo := stockrepo.NewGormLedgerRepository(db)
	saleRepo := salesrepo.NewGormSaleRepository(db)
	reportRepo := reportsrepo.NewGormReportRepository(db)
	settingsRepo := settingsrepo.NewGormSettingsRepository(db)

	// Staff accounts can run on the GORM repository or the raw SQL one.
	// Tracing wraps the GORM binding.
	var userRepository userdomain.UserRepository
	if getEnv("USER_REPOSITORY", "gorm") == "postgres" {
		rawDB, err := database.NewPostgresConnection(dbConfig)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to open raw database connection")
		}
		defer rawDB.Close()
		userRepository = userrepo.NewPostgresUserRepository(rawDB)
	} else {
		userRepository = userrepo.NewTracingUserRepository(db)
	}

	// Run migrations
	if err := db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.Location{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run catalog migrations")
	}
	if err := ledgerRepo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run ledger migrations")
	}
	if err := saleRepo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run sales migrations")
	}
	if err := settingsRepo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run settings migrations")
	}
	if err := db.AutoMigrate(&userdomain.User{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher is optional; without brokers events are disabled
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize Kafka publisher, events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	} else {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, event publishing disabled")
	}

	// Handlers
	catalogHandler := cataloghttp.NewCatalogHandler(productRepo, locationRepo)
	stockHandler := stockhttp.NewStockHandler(ledgerRepo, publisher)
	salesHandler := saleshttp.NewSalesHandler(saleRepo, publisher)
	reportsHandler := reportshttp.NewReportsHandler(reportRepo, saleRepo)
	settingsHandler := settingshttp.NewSettingsHandler(settingsRepo)
	userHandler := userhttp.NewUserHandler(userRepository)

	// Setup router
	router := mux.NewRouter()
	catalogHandler.RegisterRoutes(router)
	stockHandler.RegisterRoutes(router)
	salesHandler.RegisterRoutes(router)
	reportsHandler.RegisterRoutes(router)
	settingsHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
