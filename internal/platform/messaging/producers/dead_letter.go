package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cooperative-society-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// ErrDLQDisabled is returned when no DLQ topic is configured
var ErrDLQDisabled = errors.New("DLQ producer not initialized")

// DeadLetter is a message that gave up on its normal path
type DeadLetter struct {
	Key      string
	Value    []byte
	Reason   string
	Source   string // outbox relay or event archiver
	Attempts int
}

type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
	now      func() time.Time
}

// NewDLQProducer returns a nil producer if cfg.DLQTopic is empty (DLQ disabled)
func NewDLQProducer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured, dead letters will be dropped")
		return nil, nil
	}

	if err := ensureTopic(cfg.Brokers, cfg.DLQTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return newDLQProducer(logger, writer, cfg.DLQTopic), nil
}

func newDLQProducer(logger *slog.Logger, writer KafkaWriter, topic string) *DLQProducer {
	return &DLQProducer{
		logger:   logger,
		writer:   writer,
		dlqTopic: topic,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type deadLetterPayload struct {
	OriginalKey   string          `json:"original_key"`
	OriginalValue json.RawMessage `json:"original_value,omitempty"`
	RawValue      string          `json:"raw_value,omitempty"`
	DLQReason     string          `json:"dlq_reason"`
	Source        string          `json:"source"`
	Attempts      int             `json:"attempts"`
	Timestamp     string          `json:"timestamp"`
}

// PublishToDLQ wraps the original message with the reason it was parked.
// A value that is not valid JSON is carried as a string.
func (p *DLQProducer) PublishToDLQ(ctx context.Context, letter DeadLetter) error {
	if p == nil || p.writer == nil {
		return ErrDLQDisabled
	}

	payload := deadLetterPayload{
		OriginalKey: letter.Key,
		DLQReason:   letter.Reason,
		Source:      letter.Source,
		Attempts:    letter.Attempts,
		Timestamp:   p.now().Format(time.RFC3339Nano),
	}
	if json.Valid(letter.Value) {
		payload.OriginalValue = letter.Value
	} else {
		payload.RawValue = string(letter.Value)
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(letter.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "dlq-reason", Value: []byte(letter.Reason)},
			{Key: "dlq-source", Value: []byte(letter.Source)},
			{Key: "dlq-attempts", Value: []byte(strconv.Itoa(letter.Attempts))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message to DLQ",
			"topic", p.dlqTopic,
			"key", letter.Key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Warn("Published message to DLQ",
		"topic", p.dlqTopic,
		"key", letter.Key,
		"source", letter.Source,
		"reason", letter.Reason,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close DLQ kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
