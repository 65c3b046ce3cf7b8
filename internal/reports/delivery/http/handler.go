package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mextra/pos-backend/internal/reports/domain"
	"github.com/mextra/pos-backend/internal/reports/usecase/query"
	salesdomain "github.com/mextra/pos-backend/internal/sales/domain"
	salesquery "github.com/mextra/pos-backend/internal/sales/usecase/query"
	"github.com/mextra/pos-backend/pkg/logger"
)

// ReportsHandler handles HTTP requests for read-side aggregations
type ReportsHandler struct {
	inventoryHandler    *query.InventorySnapshotHandler
	salesSummaryHandler *query.SalesSummaryHandler
	salesHistoryHandler *salesquery.SalesHistoryHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(reports domain.ReportRepository, sales salesdomain.SaleRepository) *ReportsHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_requests_total",
			Help: "Total number of requests to report endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reports_request_duration_seconds",
			Help:    "Duration of report requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &ReportsHandler{
		inventoryHandler:    query.NewInventorySnapshotHandler(reports),
		salesSummaryHandler: query.NewSalesSummaryHandler(reports),
		salesHistoryHandler: salesquery.NewSalesHistoryHandler(sales),
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ReportsHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Inventory handles GET /api/reports/inventory
func (h *ReportsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	result, err := h.inventoryHandler.Handle(r.Context(), query.InventorySnapshotQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build inventory report")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// SalesSummary handles GET /api/reports/sales_summary
func (h *ReportsHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.salesSummaryHandler.Handle(r.Context(), query.SalesSummaryQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build sales summary")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// SalesHistory handles GET /api/reports/sales/history
func (h *ReportsHandler) SalesHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.salesHistoryHandler.Handle(r.Context(), salesquery.SalesHistoryQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Limit:     limit,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build sales history report")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// RegisterRoutes registers all report routes
func (h *ReportsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/reports/inventory", h.metricsMiddleware("/api/reports/inventory", h.Inventory)).Methods("GET")
	router.HandleFunc("/api/reports/sales_summary", h.metricsMiddleware("/api/reports/sales_summary", h.SalesSummary)).Methods("GET")
	router.HandleFunc("/api/reports/sales/history", h.metricsMiddleware("/api/reports/sales/history", h.SalesHistory)).Methods("GET")
}
