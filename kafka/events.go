package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleCompletedEvent is emitted after a sale transaction commits
type SaleCompletedEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	SaleID     uint            `json:"sale_id"`
	ReceiptNo  string          `json:"receipt_no"`
	LocationID uint            `json:"location_id"`
	Total      decimal.Decimal `json:"total"`
	LineCount  int             `json:"line_count"`
	Timestamp  time.Time       `json:"timestamp"`
}

// LowStockEvent is emitted when a committed sale leaves a product at or
// below the low-stock threshold
type LowStockEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	LocationID uint            `json:"location_id"`
	Remaining  decimal.Decimal `json:"remaining"`
	Timestamp  time.Time       `json:"timestamp"`
}

// StockReceivedEvent is emitted after a goods receipt batch commits
type StockReceivedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Supplier  string    `json:"supplier,omitempty"`
	Lines     int       `json:"lines"`
	Timestamp time.Time `json:"timestamp"`
}

// StockTransferredEvent is emitted after an inter-location transfer commits
type StockTransferredEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	Ref            string    `json:"ref"`
	FromLocationID uint      `json:"from_location_id"`
	ToLocationID   uint      `json:"to_location_id"`
	Lines          int       `json:"lines"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleCompleted    = "sale.completed"
	EventTypeLowStock         = "stock.low"
	EventTypeStockReceived    = "stock.received"
	EventTypeStockTransferred = "stock.transferred"
)

// Kafka topics
const (
	TopicSales = "pos-sales"
	TopicStock = "pos-stock"
)
