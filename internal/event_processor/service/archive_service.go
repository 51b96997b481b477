package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrInvalidEvent marks an event that can never be archived
var ErrInvalidEvent = errors.New("invalid event")

type archiveService struct {
	repo   eventlog.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewArchiveService creates the service writing events to repo
func NewArchiveService(repo eventlog.Repository, logger *slog.Logger) ArchiveService {
	return &archiveService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Archive stores the event once. Redelivered events are acknowledged
// without a second write.
func (s *archiveService) Archive(ctx context.Context, event *shared.Event) error {
	if err := validate(event); err != nil {
		return err
	}

	logger := s.logger.With("event_id", event.ID.String(), "event_type", string(event.Type))

	err := s.repo.Create(ctx, eventlog.NewRecord(*event, s.now()))
	if err != nil {
		if errors.Is(err, eventlog.ErrDuplicateRecord{}) {
			logger.Debug("Event already archived")
			return nil
		}
		return fmt.Errorf("failed to archive event %s: %w", event.ID, err)
	}

	logger.Debug("Archived event", "aggregate_id", event.AggregateID, "state_version", event.StateVersion)
	return nil
}

func validate(event *shared.Event) error {
	switch {
	case event == nil:
		return fmt.Errorf("%w: empty message", ErrInvalidEvent)
	case event.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidEvent)
	case event.Type == "":
		return fmt.Errorf("%w: missing type", ErrInvalidEvent)
	case event.OccurredAt.IsZero():
		return fmt.Errorf("%w: missing occurrence time", ErrInvalidEvent)
	}
	return nil
}
