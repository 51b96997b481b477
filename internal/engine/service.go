// Package engine owns the society state. Mutations are serialized, applied
// to a copy of the current state, persisted write-through together with the
// events they emit, and only then published. Readers always see a complete
// version and never take a lock.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
)

// Service is the single entry point to the ledger and loan accounting engine
type Service struct {
	store  snapshot.Repository
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex // serializes writers
	state atomic.Pointer[State]
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService loads the last persisted state from store, or starts an empty
// society with the given settings when nothing was saved yet.
func NewService(ctx context.Context, store snapshot.Repository, defaults snapshot.Settings, logger *slog.Logger, opts ...Option) (*Service, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default settings: %w", err)
	}

	s := &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	st := newState(defaults)
	if doc != nil {
		st, err = stateFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to restore snapshot: %w", err)
		}
	}
	s.state.Store(st)

	logger.Info("society state loaded",
		"version", st.Version,
		"members", len(st.Members),
		"passbook_entries", len(st.Passbook),
		"loans", len(st.Loans))

	return s, nil
}

// Version is the number of committed mutations behind the current state
func (s *Service) Version() uint64 {
	return s.current().Version
}

func (s *Service) current() *State {
	return s.state.Load()
}

// change describes an event a mutation wants published once it commits
type change struct {
	eventType   shared.EventType
	aggregateID string
	payload     any
}

// mutate runs fn against a clone of the current state. Nothing becomes
// visible unless fn succeeds and the new version is persisted.
func (s *Service) mutate(ctx context.Context, op string, fn func(st *State, now time.Time) ([]change, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := s.current().clone()

	changes, err := fn(next, now)
	if err != nil {
		s.logger.Debug("mutation rejected", "operation", op, "error", err)
		return err
	}
	next.Version++

	events := make([]shared.Event, 0, len(changes))
	for _, c := range changes {
		ev, err := shared.NewEvent(c.eventType, c.aggregateID, c.payload, next.Version, now)
		if err != nil {
			return fmt.Errorf("failed to build %s event: %w", c.eventType, err)
		}
		events = append(events, ev)
	}

	if err := s.store.Save(ctx, next.toDocument(now), events); err != nil {
		s.logger.Error("failed to persist state", "operation", op, "version", next.Version, "error", err)
		return fmt.Errorf("failed to persist %s: %w", op, err)
	}

	s.state.Store(next)
	s.logger.Debug("state committed", "operation", op, "version", next.Version, "events", len(events))
	return nil
}
