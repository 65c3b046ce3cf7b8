package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/sales/domain"
	"github.com/mextra/pos-backend/internal/sales/usecase/command"
	"github.com/mextra/pos-backend/internal/sales/usecase/query"
	"github.com/mextra/pos-backend/kafka"
	"github.com/mextra/pos-backend/pkg/logger"
)

// SalesHandler handles HTTP requests for sale transactions
type SalesHandler struct {
	createSaleHandler   *command.CreateSaleHandler
	getSaleHandler      *query.GetSaleHandler
	salesHistoryHandler *query.SalesHistoryHandler

	kafkaPublisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	salesCommitted prometheus.Counter
	salesAborted   prometheus.Counter
	saleAmount     prometheus.Histogram
}

// NewSalesHandler creates a new sales handler. kafkaPublisher may be nil,
// in which case event publishing is disabled.
func NewSalesHandler(sales domain.SaleRepository, kafkaPublisher *kafka.Publisher) *SalesHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_requests_total",
			Help: "Total number of requests to sales endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sales_request_duration_seconds",
			Help:    "Duration of sales requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	salesCommitted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_committed_total",
			Help: "Total number of committed sale transactions",
		},
	)

	salesAborted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_aborted_total",
			Help: "Total number of aborted sale transactions",
		},
	)

	saleAmount := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sales_amount",
			Help:    "Distribution of committed sale totals",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(salesCommitted)
	prometheus.MustRegister(salesAborted)
	prometheus.MustRegister(saleAmount)

	return &SalesHandler{
		createSaleHandler:   command.NewCreateSaleHandler(sales),
		getSaleHandler:      query.NewGetSaleHandler(sales),
		salesHistoryHandler: query.NewSalesHistoryHandler(sales),
		kafkaPublisher:      kafkaPublisher,
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
		salesCommitted:      salesCommitted,
		salesAborted:        salesAborted,
		saleAmount:          saleAmount,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *SalesHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreateSale handles POST /api/sales
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName  *string `json:"customer_name"`
		LocationID    uint    `json:"location_id"`
		PaymentMethod *string `json:"payment_method"`
		Lines         []struct {
			SKU       string          `json:"sku"`
			Qty       decimal.Decimal `json:"qty"`
			UnitPrice decimal.Decimal `json:"unit_price"`
		} `json:"lines"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	cmd := command.CreateSaleCommand{
		CustomerName:  req.CustomerName,
		LocationID:    req.LocationID,
		PaymentMethod: req.PaymentMethod,
	}
	for _, l := range req.Lines {
		cmd.Lines = append(cmd.Lines, command.SaleLineInput{
			SKU:       l.SKU,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}

	result, err := h.createSaleHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.salesAborted.Inc()
		logger.Error(r.Context()).Err(err).Msg("Sale aborted")
		respondError(w, err)
		return
	}

	h.salesCommitted.Inc()
	amount, _ := result.Total.Float64()
	h.saleAmount.Observe(amount)

	logger.Info(r.Context()).
		Uint("sale_id", result.SaleID).
		Str("receipt_no", result.ReceiptNo).
		Str("total", result.Total.String()).
		Int("low_stock_warnings", len(result.LowStock)).
		Msg("Sale committed")

	if h.kafkaPublisher != nil {
		event := kafka.SaleCompletedEvent{
			SaleID:     result.SaleID,
			ReceiptNo:  result.ReceiptNo,
			LocationID: req.LocationID,
			Total:      result.Total,
			LineCount:  len(req.Lines),
		}
		if err := h.kafkaPublisher.PublishSaleCompleted(r.Context(), event); err != nil {
			// Don't fail the sale, just log
			logger.Error(r.Context()).Err(err).Msg("Failed to publish sale completed event")
		}

		for _, warning := range result.LowStock {
			lowEvent := kafka.LowStockEvent{
				SKU:        warning.SKU,
				Name:       warning.Name,
				LocationID: req.LocationID,
				Remaining:  warning.Remaining,
			}
			if err := h.kafkaPublisher.PublishLowStock(r.Context(), lowEvent); err != nil {
				logger.Error(r.Context()).Err(err).Msg("Failed to publish low stock event")
			}
		}
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Data: result})
}

// GetSale handles GET /api/sales/{id}
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid sale id"})
		return
	}

	result, err := h.getSaleHandler.Handle(r.Context(), query.GetSaleQuery{ID: uint(id)})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// SalesHistory handles GET /api/sales/history
func (h *SalesHandler) SalesHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.salesHistoryHandler.Handle(r.Context(), query.SalesHistoryQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Limit:     limit,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list sales history")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// RegisterRoutes registers all sales routes
func (h *SalesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sales", h.metricsMiddleware("/api/sales", h.CreateSale)).Methods("POST")
	router.HandleFunc("/api/sales/history", h.metricsMiddleware("/api/sales/history", h.SalesHistory)).Methods("GET")
	router.HandleFunc("/api/sales/{id}", h.metricsMiddleware("/api/sales/{id}", h.GetSale)).Methods("GET")
}
