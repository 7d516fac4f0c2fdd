package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

const eventType = "rainfall_query"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes query events to a Kafka topic.
// It implements rainfall.EventPublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes one event. There is no retry; the caller
// treats publishing as best effort. Events for the same query share a key and
// therefore a partition.
func (w *Writer) Publish(ctx context.Context, event domain.RainfallQueryEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write query event %s: %w", event.ID, err)
	}
	w.logger.Debug("query event published", "id", event.ID, "key", event.QueryKey)
	return nil
}

// Close flushes pending writes and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RainfallQueryEvent into a Kafka message.
func serializeToMessage(event domain.RainfallQueryEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize query event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.QueryKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "mode", Value: []byte(event.Mode)},
			{Key: "processed_at", Value: []byte(event.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
