package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cooperative-society-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// Message is a fetched record handed to a MessageHandler
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
}

// MessageHandler processes one message. Returning an error leaves the
// offset uncommitted.
type MessageHandler func(ctx context.Context, msg Message) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Run(ctx context.Context, handler MessageHandler) error
	Close() error
}

// KafkaReader wraps kafka.Reader methods for testing
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer using a Kafka consumer group
type KafkaConsumer struct {
	reader     KafkaReader
	topic      string
	groupID    string
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Brokers},
		Topic:       cfg.EventsTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: cfg.StartOffset,
	})
	return newKafkaConsumer(logger, reader, cfg.EventsTopic, cfg.ConsumerGroup)
}

func newKafkaConsumer(logger *slog.Logger, reader KafkaReader, topic, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		topic:      topic,
		groupID:    groupID,
		retryDelay: time.Second,
		logger:     logger.With("topic", topic, "group_id", groupID),
	}
}

// Run fetches and handles messages until ctx is canceled. Offsets are
// committed only after the handler succeeds.
func (c *KafkaConsumer) Run(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Consuming Kafka topic")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("Context canceled, stopping consumer")
				return nil
			}
			c.logger.Error("Failed to fetch message from Kafka", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		logger := c.logger.With("partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))
		logger.Debug("Received message from Kafka")

		if err := handler(ctx, toMessage(msg)); err != nil {
			logger.Error("Failed to process message, will not commit offset", "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error("Failed to commit message after successful processing", "error", err)
			continue
		}
		logger.Debug("Message committed")
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

func toMessage(msg kafka.Message) Message {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
	}
}
