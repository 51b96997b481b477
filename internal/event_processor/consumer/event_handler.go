package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/event_processor/service"
	"github.com/cooperative-society-ledger/internal/platform/messaging/consumers"
	"github.com/cooperative-society-ledger/internal/platform/messaging/producers"
)

// EventHandler archives domain events consumed from the events topic
type EventHandler struct {
	archiveService service.ArchiveService
	producer       producers.DeadLetterPublisher
	logger         *slog.Logger
}

func NewEventHandler(
	logger *slog.Logger,
	archiveService service.ArchiveService,
	producer producers.DeadLetterPublisher,
) *EventHandler {
	return &EventHandler{
		archiveService: archiveService,
		producer:       producer,
		logger:         logger,
	}
}

// HandleMessage archives one message. Messages that can never be archived
// go to the DLQ and are acknowledged; store failures are returned so the
// offset stays uncommitted.
func (h *EventHandler) HandleMessage(ctx context.Context, msg consumers.Message) error {
	var event shared.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return h.deadLetter(ctx, msg, fmt.Errorf("failed to unmarshal event: %w", err))
	}

	err := h.archiveService.Archive(ctx, &event)
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrInvalidEvent) {
		return h.deadLetter(ctx, msg, err)
	}

	h.logger.Error("Failed to archive event",
		"event_id", event.ID.String(),
		"event_type", string(event.Type),
		"error", err,
	)
	return fmt.Errorf("archiving event %s failed: %w", event.ID, err)
}

func (h *EventHandler) deadLetter(ctx context.Context, msg consumers.Message, cause error) error {
	h.logger.Error("Unprocessable event message",
		"message_key", string(msg.Key),
		"offset", msg.Offset,
		"error", cause,
	)

	letter := producers.DeadLetter{
		Key:    string(msg.Key),
		Value:  msg.Value,
		Reason: cause.Error(),
		Source: "event_archiver",
	}
	if err := h.producer.PublishToDLQ(ctx, letter); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			h.logger.Warn("DLQ disabled, dropping unprocessable message", "message_key", string(msg.Key))
			return nil
		}
		h.logger.Error("Failed to publish message to DLQ", "message_key", string(msg.Key), "dlq_error", err)
		return cause
	}
	return nil
}
