package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/mextra/pos-backend/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// publish marshals the event, injects the trace context into the message
// headers and sends it to the given topic
func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID, key string, event interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	spanAttrs := append([]attribute.KeyValue{
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.destination_kind", "topic"),
		attribute.String("event.type", eventType),
		attribute.String("event.id", eventID),
	}, attrs...)
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(spanAttrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("event_type"),
			Value: []byte(eventType),
		},
		{
			Key:   []byte("event_id"),
			Value: []byte(eventID),
		},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Logger.Info().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Event published")

	return nil
}

func newEventID() string {
	return fmt.Sprintf("evt_%d", time.Now().UnixNano())
}

// PublishSaleCompleted publishes a sale completed event with tracing
func (p *Publisher) PublishSaleCompleted(ctx context.Context, event SaleCompletedEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.EventType = EventTypeSaleCompleted
	event.Timestamp = time.Now()

	key := fmt.Sprintf("sale_%d", event.SaleID)
	return p.publish(ctx, TopicSales, EventTypeSaleCompleted, event.EventID, key, event,
		attribute.Int64("sale.id", int64(event.SaleID)),
		attribute.String("sale.receipt_no", event.ReceiptNo),
		attribute.Int("sale.line_count", event.LineCount),
	)
}

// PublishLowStock publishes a low stock alert event with tracing
func (p *Publisher) PublishLowStock(ctx context.Context, event LowStockEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.EventType = EventTypeLowStock
	event.Timestamp = time.Now()

	key := fmt.Sprintf("sku_%s", event.SKU)
	return p.publish(ctx, TopicStock, EventTypeLowStock, event.EventID, key, event,
		attribute.String("product.sku", event.SKU),
		attribute.String("stock.remaining", event.Remaining.String()),
	)
}

// PublishStockReceived publishes a stock received event with tracing
func (p *Publisher) PublishStockReceived(ctx context.Context, event StockReceivedEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.EventType = EventTypeStockReceived
	event.Timestamp = time.Now()

	return p.publish(ctx, TopicStock, EventTypeStockReceived, event.EventID, "receipt", event,
		attribute.Int("receipt.lines", event.Lines),
	)
}

// PublishStockTransferred publishes a stock transferred event with tracing
func (p *Publisher) PublishStockTransferred(ctx context.Context, event StockTransferredEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.EventType = EventTypeStockTransferred
	event.Timestamp = time.Now()

	return p.publish(ctx, TopicStock, EventTypeStockTransferred, event.EventID, event.Ref, event,
		attribute.String("transfer.ref", event.Ref),
		attribute.Int64("transfer.from_location_id", int64(event.FromLocationID)),
		attribute.Int64("transfer.to_location_id", int64(event.ToLocationID)),
	)
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
