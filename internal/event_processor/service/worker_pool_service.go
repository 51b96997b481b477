package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolArchiveService bounds the number of concurrent archive writes
type WorkerPoolArchiveService struct {
	baseService ArchiveService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolArchiveService(
	baseService ArchiveService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolArchiveService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolArchiveService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Archive runs the write on a pool worker and waits for its result, so a
// caller still learns whether the event was stored.
func (s *WorkerPoolArchiveService) Archive(ctx context.Context, event *shared.Event) error {
	if event == nil {
		return fmt.Errorf("%w: empty message", ErrInvalidEvent)
	}

	resultChan := make(chan error, 1)
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.Archive(ctx, &eventCopy)
	})
	if err != nil {
		s.logger.Error("Failed to submit event to worker pool",
			"event_id", event.ID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolArchiveService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolArchiveService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolArchiveService) Capacity() int {
	return s.pool.Cap()
}
