package eventlog

import (
	"context"
)

// Repository stores archived events with pagination support
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByEventID(ctx context.Context, eventID string) (*Record, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Record, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// ErrRecordNotFound indicates a missing archived event
type ErrRecordNotFound struct {
	EventID string
}

func (e ErrRecordNotFound) Error() string {
	return "archived event not found: " + e.EventID
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	// An empty EventID matches any ErrRecordNotFound
	return t.EventID == "" || e.EventID == t.EventID
}

// ErrDuplicateRecord indicates the event was archived already
type ErrDuplicateRecord struct {
	EventID string
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate archived event: " + e.EventID
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	return t.EventID == "" || e.EventID == t.EventID
}
