package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mextra/pos-backend/internal/settings/domain"
	"github.com/mextra/pos-backend/internal/settings/usecase/command"
	"github.com/mextra/pos-backend/internal/settings/usecase/query"
	"github.com/mextra/pos-backend/pkg/logger"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// SettingsHandler handles HTTP requests for the company settings singleton
type SettingsHandler struct {
	getHandler    *query.GetSettingsHandler
	updateHandler *command.UpdateSettingsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings domain.SettingsRepository) *SettingsHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_requests_total",
			Help: "Total number of requests to settings endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settings_request_duration_seconds",
			Help:    "Duration of settings requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &SettingsHandler{
		getHandler:     query.NewGetSettingsHandler(settings),
		updateHandler:  command.NewUpdateSettingsHandler(settings),
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *SettingsHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// GetCompanySettings handles GET /api/settings/company
func (h *SettingsHandler) GetCompanySettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.getHandler.Handle(r.Context(), query.GetSettingsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load company settings")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: settings})
}

// UpdateCompanySettings handles POST /api/settings/company
func (h *SettingsHandler) UpdateCompanySettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName   *string `json:"company_name"`
		Address       *string `json:"address"`
		Phone         *string `json:"phone"`
		Email         *string `json:"email"`
		TaxID         *string `json:"tax_id"`
		Currency      *string `json:"currency"`
		ReceiptFooter *string `json:"receipt_footer"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	settings, err := h.updateHandler.Handle(r.Context(), command.UpdateSettingsCommand{
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		TaxID:         req.TaxID,
		Currency:      req.Currency,
		ReceiptFooter: req.ReceiptFooter,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update company settings")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Settings updated", Data: settings})
}

// RegisterRoutes registers all settings routes
func (h *SettingsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/settings/company", h.metricsMiddleware("/api/settings/company", h.GetCompanySettings)).Methods("GET")
	router.HandleFunc("/api/settings/company", h.metricsMiddleware("/api/settings/company", h.UpdateCompanySettings)).Methods("POST")
}
