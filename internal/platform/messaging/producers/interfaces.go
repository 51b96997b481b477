package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// EventPublisher publishes encoded domain events to the events topic
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
	Close() error
}

// DeadLetterPublisher parks messages that could not be delivered or handled
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, letter DeadLetter) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
