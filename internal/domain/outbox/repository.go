package outbox

import (
	"context"
	"fmt"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Writer queues the events of a snapshot save. It is bound to the
// transaction that writes the snapshot row.
type Writer interface {
	Create(ctx context.Context, message *Message) error
	WithTx(tx pgx.Tx) Repository
}

// Relay is the side read by the outbox poller
type Relay interface {
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error
	IncrementAttempts(ctx context.Context, id int64) error
}

// Repository is the full outbox store
type Repository interface {
	Writer
	Relay
}

// ErrMessageNotFound is returned when a relay update matches no row
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return fmt.Sprintf("outbox message %d not found", e.ID)
}

// ErrDuplicateMessage means the event was queued by an earlier save
type ErrDuplicateMessage struct {
	EventID uuid.UUID
}

func (e ErrDuplicateMessage) Error() string {
	return fmt.Sprintf("event %s is already in the outbox", e.EventID)
}
