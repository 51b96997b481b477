package producers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cooperative-society-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// EventProducer writes domain events to the events topic. Events are keyed
// by aggregate id, and the hash balancer keeps one aggregate on one
// partition so consumers see its events in commit order.
type EventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewEventProducer ensures the events topic exists and opens a synchronous writer
func NewEventProducer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*EventProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	if err := ensureTopic(cfg.Brokers, cfg.EventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure events topic %s exists: %w", cfg.EventsTopic, err)
	}

	// The outbox relay marks a message processed only after the write is acknowledged
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &EventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventsTopic,
	}, nil
}

// Publish writes one event. value is the already encoded event.
func (p *EventProducer) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: toHeaders(headers),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published event", "topic", p.topic, "key", key)
	return nil
}

func (p *EventProducer) Close() error {
	p.logger.Info("Closing event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
