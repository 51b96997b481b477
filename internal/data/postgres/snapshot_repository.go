package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/outbox"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/cooperative-society-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// SnapshotRepository keeps the society state in a single jsonb row. Every
// save writes the row and the outbox messages of its events in one
// transaction, so an event is relayed only if its state was committed.
type SnapshotRepository struct {
	db     persistence.TxStarter
	outbox *OutboxRepository
	key    string
	logger *slog.Logger
}

// NewSnapshotRepository creates the snapshot store for the row named key
func NewSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB, key string) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db.Pool(),
		outbox: &OutboxRepository{querier: db.Pool(), logger: logger},
		key:    key,
		logger: logger,
	}
}

var _ snapshot.Repository = (*SnapshotRepository)(nil)

// Load returns the stored document, or nil if the society was never saved
func (r *SnapshotRepository) Load(ctx context.Context) (*snapshot.Document, error) {
	query := `
		SELECT payload
		FROM society_snapshots
		WHERE id = $1
	`

	var payload []byte
	if err := r.db.QueryRow(ctx, query, r.key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to load snapshot", "key", r.key, "error", err)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	doc, err := snapshot.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", r.key, err)
	}
	return doc, nil
}

// Save upserts the snapshot row and queues the events. The upsert only
// replaces an older state version; anything else is ErrStaleSnapshot.
func (r *SnapshotRepository) Save(ctx context.Context, doc *snapshot.Document, events []shared.Event) error {
	payload, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO society_snapshots (id, state_version, payload, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET state_version = EXCLUDED.state_version, payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at
		WHERE society_snapshots.state_version < EXCLUDED.state_version
	`

	err = persistence.ExecuteTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query, r.key, int64(doc.StateVersion), payload, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert snapshot: %w", err)
		}
		if result.RowsAffected() == 0 {
			return snapshot.ErrStaleSnapshot{StateVersion: doc.StateVersion}
		}

		messages := r.outbox.WithTx(tx)
		for _, event := range events {
			message, err := outbox.NewMessage(event)
			if err != nil {
				return fmt.Errorf("failed to build outbox message for %s: %w", event.Type, err)
			}
			if err := messages.Create(ctx, message); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save snapshot",
			"key", r.key,
			"state_version", doc.StateVersion,
			"events", len(events),
			"error", err,
		)
		return err
	}

	r.logger.Debug("Snapshot saved", "key", r.key, "state_version", doc.StateVersion, "events", len(events))
	return nil
}
