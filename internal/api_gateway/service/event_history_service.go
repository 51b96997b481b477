package service

import (
	"context"
	"log/slog"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
)

// EventHistoryServiceImpl implements the EventHistoryService interface
type EventHistoryServiceImpl struct {
	repo   eventlog.Repository
	logger *slog.Logger
}

// NewEventHistoryService creates a new event history service
func NewEventHistoryService(logger *slog.Logger, repo eventlog.Repository) EventHistoryService {
	return &EventHistoryServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// ListEvents retrieves one page of archived events and the total count
func (s *EventHistoryServiceImpl) ListEvents(ctx context.Context, filter eventlog.Filter, page, perPage int) ([]*eventlog.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.repo.List(ctx, filter, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list archived events", "aggregate_id", filter.AggregateID, "type", filter.Type, "error", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count archived events", "aggregate_id", filter.AggregateID, "type", filter.Type, "error", err)
		return nil, 0, err
	}

	return records, total, nil
}

// GetEvent retrieves a single archived event
func (s *EventHistoryServiceImpl) GetEvent(ctx context.Context, eventID string) (*eventlog.Record, error) {
	return s.repo.GetByEventID(ctx, eventID)
}
