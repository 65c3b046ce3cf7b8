package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/catalog/domain"
	"github.com/mextra/pos-backend/internal/catalog/usecase/command"
	"github.com/mextra/pos-backend/internal/catalog/usecase/query"
	"github.com/mextra/pos-backend/pkg/logger"
)

// CatalogHandler handles HTTP requests for products and locations
type CatalogHandler struct {
	// Command handlers
	createProductHandler     *command.CreateProductHandler
	updateProductHandler     *command.UpdateProductHandler
	deactivateProductHandler *command.DeactivateProductHandler
	createLocationHandler    *command.CreateLocationHandler
	updateLocationHandler    *command.UpdateLocationHandler

	// Query handlers
	listProductsHandler      *query.ListProductsHandler
	productsWithStockHandler *query.ProductsWithStockHandler
	listLocationsHandler     *query.ListLocationsHandler
	getLocationHandler       *query.GetLocationHandler

	productRepo    domain.ProductRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	activeProducts prometheus.Gauge
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(productRepo domain.ProductRepository, locationRepo domain.LocationRepository) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests to catalog endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	activeProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_active_products",
			Help: "Number of active products in the catalog",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(activeProducts)

	return &CatalogHandler{
		createProductHandler:     command.NewCreateProductHandler(productRepo),
		updateProductHandler:     command.NewUpdateProductHandler(productRepo),
		deactivateProductHandler: command.NewDeactivateProductHandler(productRepo),
		createLocationHandler:    command.NewCreateLocationHandler(locationRepo),
		updateLocationHandler:    command.NewUpdateLocationHandler(locationRepo),
		listProductsHandler:      query.NewListProductsHandler(productRepo),
		productsWithStockHandler: query.NewProductsWithStockHandler(productRepo),
		listLocationsHandler:     query.NewListLocationsHandler(locationRepo),
		getLocationHandler:       query.NewGetLocationHandler(locationRepo),
		productRepo:              productRepo,
		requestCounter:           requestCounter,
		requestLatency:           requestLatency,
		activeProducts:           activeProducts,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

func (h *CatalogHandler) updateActiveProductsMetric(r *http.Request) {
	if count, err := h.productRepo.CountActive(r.Context()); err == nil {
		h.activeProducts.Set(float64(count))
	}
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProductsHandler.Handle(r.Context(), query.ListProductsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// ProductsWithStock handles GET /api/products/with_stock
func (h *CatalogHandler) ProductsWithStock(w http.ResponseWriter, r *http.Request) {
	locationID, _ := strconv.ParseUint(r.URL.Query().Get("location_id"), 10, 32)

	rows, err := h.productsWithStockHandler.Handle(r.Context(), query.ProductsWithStockQuery{
		LocationID: uint(locationID),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products with stock")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU          string          `json:"sku"`
		Name         string          `json:"name"`
		Barcode      *string         `json:"barcode"`
		Unit         string          `json:"unit"`
		TaxRate      decimal.Decimal `json:"tax_rate"`
		SellingPrice decimal.Decimal `json:"selling_price"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	product, err := h.createProductHandler.Handle(r.Context(), command.CreateProductCommand{
		SKU:          req.SKU,
		Name:         req.Name,
		Barcode:      req.Barcode,
		Unit:         req.Unit,
		TaxRate:      req.TaxRate,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.updateActiveProductsMetric(r)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct handles PATCH /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name         *string          `json:"name"`
		Barcode      *string          `json:"barcode"`
		Unit         *string          `json:"unit"`
		TaxRate      *decimal.Decimal `json:"tax_rate"`
		SellingPrice *decimal.Decimal `json:"selling_price"`
		IsActive     *bool            `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	product, err := h.updateProductHandler.Handle(r.Context(), command.UpdateProductCommand{
		ID:           id,
		Name:         req.Name,
		Barcode:      req.Barcode,
		Unit:         req.Unit,
		TaxRate:      req.TaxRate,
		SellingPrice: req.SellingPrice,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.updateActiveProductsMetric(r)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// DeactivateProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.deactivateProductHandler.Handle(r.Context(), command.DeactivateProductCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}

	h.updateActiveProductsMetric(r)
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product deactivated"})
}

// ListLocations handles GET /api/locations
func (h *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.listLocationsHandler.Handle(r.Context(), query.ListLocationsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list locations")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: locations})
}

// GetLocation handles GET /api/locations/{id}
func (h *CatalogHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	location, err := h.getLocationHandler.Handle(r.Context(), query.GetLocationQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: location})
}

// CreateLocation handles POST /api/locations
func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sort_order"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	location, err := h.createLocationHandler.Handle(r.Context(), command.CreateLocationCommand{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Location created successfully",
		Data:    location,
	})
}

// UpdateLocation handles PATCH /api/locations/{id}
func (h *CatalogHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	location, err := h.updateLocationHandler.Handle(r.Context(), command.UpdateLocationCommand{
		ID:        id,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: location})
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/with_stock", h.metricsMiddleware("/api/products/with_stock", h.ProductsWithStock)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.UpdateProduct)).Methods("PATCH")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.DeactivateProduct)).Methods("DELETE")

	router.HandleFunc("/api/locations", h.metricsMiddleware("/api/locations", h.ListLocations)).Methods("GET")
	router.HandleFunc("/api/locations", h.metricsMiddleware("/api/locations", h.CreateLocation)).Methods("POST")
	router.HandleFunc("/api/locations/{id}", h.metricsMiddleware("/api/locations/{id}", h.GetLocation)).Methods("GET")
	router.HandleFunc("/api/locations/{id}", h.metricsMiddleware("/api/locations/{id}", h.UpdateLocation)).Methods("PATCH")
}
