package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/sales-record-engine/internal/config"
)

// ChangeEventProducer writes collection change events to the change topic
type ChangeEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

var _ MessagePublisher = (*ChangeEventProducer)(nil)

// NewChangeEventProducer ensures the change topic exists and opens a writer for it
func NewChangeEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*ChangeEventProducer, error) {
	if cfg.ChangeTopic == "" {
		return nil, fmt.Errorf("kafka change topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for change event producer: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, cfg.ChangeTopic, cfg.NumPartitions, cfg.ReplicationFactor, topicReadBackoff, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure change topic %s exists: %w", cfg.ChangeTopic, err)
	}

	// Synchronous writes; callers run them off the notification path
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ChangeTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &ChangeEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ChangeTopic,
	}, nil
}

// Publish writes value as JSON keyed by key. Events sharing a key land on the
// same partition and keep their order.
func (p *ChangeEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish change event", "topic", p.topic, "key", key, "error", err)
		return fmt.Errorf("failed to publish change event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published change event", "topic", p.topic, "key", key)
	return nil
}

func (p *ChangeEventProducer) Close() error {
	p.logger.Info("Closing change event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
