package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cooperative-society-ledger/internal/config"
	"github.com/cooperative-society-ledger/internal/domain/outbox"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/platform/messaging/producers"
)

// Poller relays pending outbox messages to the events topic
type Poller struct {
	outboxRepo       outbox.Relay
	publisher        producers.EventPublisher
	dlq              producers.DeadLetterPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Relay,
	publisher producers.EventPublisher,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		dlq:              dlq,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start polls until ctx is canceled
func (p *Poller) Start(ctx context.Context) error {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping")
			return nil
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	p.logger.Debug("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		if ctx.Err() != nil {
			return nil
		}
		p.relay(ctx, msg)
	}
	return nil
}

// relay publishes one message. Messages are processed in id order and a
// failure does not hold back later ones; a message that keeps failing is
// parked as FAILED_TO_PUBLISH and copied to the DLQ.
func (p *Poller) relay(ctx context.Context, msg *outbox.Message) {
	logger := p.logger.With(
		"outbox_id", msg.ID,
		"event_id", msg.EventID.String(),
		"event_type", string(msg.EventType),
	)

	headers := map[string]string{
		"event-id":   msg.EventID.String(),
		"event-type": string(msg.EventType),
	}

	err := p.publisher.Publish(ctx, msg.AggregateID, msg.Payload, headers)
	if err == nil {
		if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusProcessed); err != nil {
			// The event is out; a re-send is harmless because the archive dedups by event id
			logger.Error("Published event but failed to mark outbox message PROCESSED", "error", err)
			return
		}
		logger.Debug("Relayed outbox message")
		return
	}

	logger.Error("Failed to publish outbox message", "attempts", msg.Attempts, "error", err)

	if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
		logger.Error("Failed to increment attempts for outbox message", "error", errInc)
		return
	}

	attempts := msg.Attempts + 1
	if attempts < p.maxRetryAttempts {
		return
	}

	logger.Warn("Max retry attempts reached, marking outbox message FAILED_TO_PUBLISH", "attempts", attempts)
	if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); errUpdate != nil {
		logger.Error("Failed to mark outbox message FAILED_TO_PUBLISH", "error", errUpdate)
		return
	}

	letter := producers.DeadLetter{
		Key:      msg.AggregateID,
		Value:    msg.Payload,
		Reason:   "publish failed after " + strconv.Itoa(attempts) + " attempts: " + err.Error(),
		Source:   "outbox_relay",
		Attempts: attempts,
	}
	if errDLQ := p.dlq.PublishToDLQ(ctx, letter); errDLQ != nil && !errors.Is(errDLQ, producers.ErrDLQDisabled) {
		logger.Error("Failed to copy parked outbox message to DLQ", "error", errDLQ)
	}
}
