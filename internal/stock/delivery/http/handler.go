package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mextra/pos-backend/internal/stock/domain"
	"github.com/mextra/pos-backend/internal/stock/usecase/command"
	"github.com/mextra/pos-backend/internal/stock/usecase/query"
	"github.com/mextra/pos-backend/kafka"
	"github.com/mextra/pos-backend/pkg/logger"
)

// StockHandler handles HTTP requests for goods receipts and transfers
type StockHandler struct {
	receiveHandler  *command.ReceiveStockHandler
	transferHandler *command.TransferStockHandler
	availableQty    *query.AvailableQtyHandler

	kafkaPublisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	movesAppended  *prometheus.CounterVec
}

// NewStockHandler creates a new stock handler. kafkaPublisher may be nil,
// in which case event publishing is disabled.
func NewStockHandler(ledger domain.LedgerRepository, kafkaPublisher *kafka.Publisher) *StockHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_requests_total",
			Help: "Total number of requests to stock endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_request_duration_seconds",
			Help:    "Duration of stock requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	movesAppended := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_moves_appended_total",
			Help: "Total number of ledger rows appended, by move type",
		},
		[]string{"move_type"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(movesAppended)

	return &StockHandler{
		receiveHandler:  command.NewReceiveStockHandler(ledger),
		transferHandler: command.NewTransferStockHandler(ledger),
		availableQty:    query.NewAvailableQtyHandler(ledger),
		kafkaPublisher:  kafkaPublisher,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		movesAppended:   movesAppended,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *StockHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ReceiveStock handles POST /api/receipts
func (h *StockHandler) ReceiveStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Supplier string `json:"supplier"`
		Lines    []struct {
			ProductSKU   string          `json:"product_sku"`
			Qty          decimal.Decimal `json:"qty"`
			UnitCost     decimal.Decimal `json:"unit_cost"`
			LotCode      string          `json:"lot_code"`
			ExpiryDate   *time.Time      `json:"expiry_date"`
			ToLocationID uint            `json:"to_location_id"`
		} `json:"lines"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	cmd := command.ReceiveStockCommand{Supplier: req.Supplier}
	for _, l := range req.Lines {
		cmd.Lines = append(cmd.Lines, command.ReceiveLine{
			ProductSKU:   l.ProductSKU,
			Qty:          l.Qty,
			UnitCost:     l.UnitCost,
			LotCode:      l.LotCode,
			ExpiryDate:   l.ExpiryDate,
			ToLocationID: l.ToLocationID,
		})
	}

	received, err := h.receiveHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to receive stock")
		respondError(w, err)
		return
	}

	h.movesAppended.WithLabelValues(string(domain.MoveTypeReceipt)).Add(float64(len(received)))

	if h.kafkaPublisher != nil {
		event := kafka.StockReceivedEvent{
			Supplier: req.Supplier,
			Lines:    len(received),
		}
		if err := h.kafkaPublisher.PublishStockReceived(r.Context(), event); err != nil {
			// Don't fail the receipt, just log
			logger.Error(r.Context()).Err(err).Msg("Failed to publish stock received event")
		}
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Stock received",
		Data:    map[string]interface{}{"received": received},
	})
}

// TransferStock handles POST /api/stock_transfer
func (h *StockHandler) TransferStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromLocationID uint `json:"from_location_id"`
		ToLocationID   uint `json:"to_location_id"`
		Lines          []struct {
			ProductSKU string          `json:"product_sku"`
			Qty        decimal.Decimal `json:"qty"`
		} `json:"lines"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidBody(w)
		return
	}

	cmd := command.TransferStockCommand{
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
	}
	for _, l := range req.Lines {
		cmd.Lines = append(cmd.Lines, command.TransferLine{
			ProductSKU: l.ProductSKU,
			Qty:        l.Qty,
		})
	}

	result, err := h.transferHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to transfer stock")
		respondError(w, err)
		return
	}

	h.movesAppended.WithLabelValues(string(domain.MoveTypeTransferOut)).Add(float64(len(result.Lines)))
	h.movesAppended.WithLabelValues(string(domain.MoveTypeTransferIn)).Add(float64(len(result.Lines)))

	if h.kafkaPublisher != nil {
		event := kafka.StockTransferredEvent{
			Ref:            result.Ref,
			FromLocationID: req.FromLocationID,
			ToLocationID:   req.ToLocationID,
			Lines:          len(result.Lines),
		}
		if err := h.kafkaPublisher.PublishStockTransferred(r.Context(), event); err != nil {
			// Don't fail the transfer, just log
			logger.Error(r.Context()).Err(err).Msg("Failed to publish stock transferred event")
		}
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Data: result})
}

// AvailableQty handles GET /api/stock/available
func (h *StockHandler) AvailableQty(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseUint(r.URL.Query().Get("product_id"), 10, 32)
	locationID, _ := strconv.ParseUint(r.URL.Query().Get("location_id"), 10, 32)

	qty, err := h.availableQty.Handle(r.Context(), query.AvailableQtyQuery{
		ProductID:  uint(productID),
		LocationID: uint(locationID),
	})
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"product_id":  uint(productID),
			"location_id": uint(locationID),
			"available":   qty,
		},
	})
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/receipts", h.metricsMiddleware("/api/receipts", h.ReceiveStock)).Methods("POST")
	router.HandleFunc("/api/stock_transfer", h.metricsMiddleware("/api/stock_transfer", h.TransferStock)).Methods("POST")
	router.HandleFunc("/api/stock/available", h.metricsMiddleware("/api/stock/available", h.AvailableQty)).Methods("GET")
}
