package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/config"
	"github.com/couchcryptid/google-geocoding/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Audit event kinds.
const (
	EventRequest  = "request"
	EventCacheUse = "cache_use"
)

// AuditEvent is the JSON payload published for every audit operation.
// Record is set for request events; cache use events only carry the URL.
type AuditEvent struct {
	Kind       string              `json:"kind"`
	URL        string              `json:"url"`
	Record     *domain.AuditRecord `json:"record,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes audit events to a Kafka topic, keyed by request URL so all
// events for one URL land on the same partition.
// It implements domain.AuditStore.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured audit topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaAuditTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Insert publishes a request event for record.
func (w *Writer) Insert(ctx context.Context, record domain.AuditRecord) error {
	return w.publish(ctx, AuditEvent{
		Kind:       EventRequest,
		URL:        record.URL,
		Record:     &record,
		OccurredAt: record.CreatedAt,
	})
}

// IncrementCacheUses publishes a cache use event for url. Consumers fold these
// into the latest request record for the URL.
func (w *Writer) IncrementCacheUses(ctx context.Context, url string) error {
	return w.publish(ctx, AuditEvent{
		Kind:       EventCacheUse,
		URL:        url,
		OccurredAt: domain.Now(),
	})
}

func (w *Writer) publish(ctx context.Context, event AuditEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Kind, err)
	}
	w.logger.Debug("audit event published", "kind", event.Kind, "url", event.URL)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AuditEvent into a Kafka message.
func serializeToMessage(event AuditEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.URL),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_kind", Value: []byte(event.Kind)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
