// Package postgres provides the PostgreSQL side of the society ledger:
// the snapshot row written through by the engine and the transactional
// outbox that carries its domain events to Kafka.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/outbox"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const outboxColumns = `id, event_id, event_type, aggregate_id, payload, status, attempts, created_at, last_attempt_at`

// OutboxRepository implements the outbox.Repository interface for PostgreSQL
type OutboxRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOutboxRepository creates a new PostgreSQL outbox repository
func NewOutboxRepository(logger *slog.Logger, db *persistence.PostgresDB) outbox.Repository {
	return &OutboxRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx binds the repository to tx so messages are written with the snapshot
func (r *OutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return &OutboxRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create queues a pending message. An event already queued yields
// ErrDuplicateMessage instead of a second row.
func (r *OutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	query := `
		INSERT INTO outbox_messages (event_id, event_type, aggregate_id, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		message.EventID,
		message.EventType,
		message.AggregateID,
		message.Payload,
		message.Status,
		message.Attempts,
		message.CreatedAt,
	).Scan(&message.ID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outbox.ErrDuplicateMessage{EventID: message.EventID}
		}
		r.logger.Error("Failed to create outbox message",
			"event_id", message.EventID.String(),
			"event_type", string(message.EventType),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message: %w", err)
	}

	return nil
}

// GetPending returns up to limit pending messages, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_messages
		WHERE status = $1
		ORDER BY id ASC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, shared.OutboxStatusPending, limit)
	if err != nil {
		r.logger.Error("Failed to get pending outbox messages", "error", err)
		return nil, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*outbox.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			r.logger.Error("Failed to scan outbox message", "error", err)
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over outbox messages", "error", err)
		return nil, fmt.Errorf("error iterating over outbox messages: %w", err)
	}

	return messages, nil
}

// UpdateStatus sets the status and stamps the attempt time
func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	query := `
		UPDATE outbox_messages
		SET status = $1, last_attempt_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update outbox message status",
			"id", id,
			"status", string(status),
			"error", err,
		)
		return fmt.Errorf("failed to update outbox message status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound{ID: id}
	}

	return nil
}

// IncrementAttempts records one more failed publish attempt
func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_messages
		SET attempts = attempts + 1, last_attempt_at = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to increment outbox message attempts", "id", id, "error", err)
		return fmt.Errorf("failed to increment outbox message attempts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound{ID: id}
	}

	return nil
}

func scanMessage(row pgx.Row) (*outbox.Message, error) {
	var message outbox.Message
	err := row.Scan(
		&message.ID,
		&message.EventID,
		&message.EventType,
		&message.AggregateID,
		&message.Payload,
		&message.Status,
		&message.Attempts,
		&message.CreatedAt,
		&message.LastAttemptAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}
