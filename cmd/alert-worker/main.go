package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mextra/pos-backend/kafka"
	"github.com/mextra/pos-backend/pkg/logger"
	"github.com/mextra/pos-backend/pkg/tracing"
)

// The alert worker consumes stock events and surfaces low-stock alerts.
// Replenishment notification channels hang off this process so the API
// server never blocks on them.
func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "pos-alert-worker")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().Str("service", serviceName).Msg("Starting alert worker")

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

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	groupID := getEnv("KAFKA_GROUP_ID", "pos-alert-worker")

	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicStock, kafka.TopicSales})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeLowStock, handleLowStock)
	consumer.RegisterHandler(kafka.EventTypeSaleCompleted, handleSaleCompleted)
	consumer.RegisterHandler(kafka.EventTypeStockReceived, handleStockReceived)
	consumer.RegisterHandler(kafka.EventTypeStockTransferred, handleStockTransferred)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down alert worker...")
}

func handleLowStock(ctx context.Context, payload []byte) error {
	var event kafka.LowStockEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	logger.Warn(ctx).
		Str("sku", event.SKU).
		Str("name", event.Name).
		Uint("location_id", event.LocationID).
		Str("remaining", event.Remaining.String()).
		Msg("LOW STOCK ALERT: product needs replenishment")
	return nil
}

func handleSaleCompleted(ctx context.Context, payload []byte) error {
	var event kafka.SaleCompletedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	logger.Info(ctx).
		Uint("sale_id", event.SaleID).
		Str("receipt_no", event.ReceiptNo).
		Str("total", event.Total.String()).
		Msg("Sale recorded")
	return nil
}

func handleStockReceived(ctx context.Context, payload []byte) error {
	var event kafka.StockReceivedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	logger.Info(ctx).
		Str("supplier", event.Supplier).
		Int("lines", event.Lines).
		Msg("Goods receipt recorded")
	return nil
}

func handleStockTransferred(ctx context.Context, payload []byte) error {
	var event kafka.StockTransferredEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	logger.Info(ctx).
		Str("ref", event.Ref).
		Uint("from_location_id", event.FromLocationID).
		Uint("to_location_id", event.ToLocationID).
		Int("lines", event.Lines).
		Msg("Stock transfer recorded")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
