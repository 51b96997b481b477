package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
)

const (
	// SnapshotCollectionName is the name of the snapshot collection in MongoDB
	SnapshotCollectionName = "society_snapshots"
)

// snapshotDocument keeps the state as its JSON encoding so decimals and
// timestamps round-trip exactly as the export format defines them.
type snapshotDocument struct {
	ID           string    `bson:"_id"`
	StateVersion int64     `bson:"state_version"`
	Payload      string    `bson:"payload"`
	SavedAt      time.Time `bson:"saved_at"`
}

// SnapshotRepository stores the society state in MongoDB. There is no
// outbox on this backend, so the events of a save go straight to the archive.
type SnapshotRepository struct {
	db      *mongo.Database
	archive eventlog.Repository
	key     string
	logger  *slog.Logger
}

// NewSnapshotRepository creates the snapshot store for the document named key
func NewSnapshotRepository(logger *slog.Logger, db *mongo.Database, archive eventlog.Repository, key string) *SnapshotRepository {
	return &SnapshotRepository{
		db:      db,
		archive: archive,
		key:     key,
		logger:  logger,
	}
}

var _ snapshot.Repository = (*SnapshotRepository)(nil)

// Load returns the stored document, or nil if the society was never saved
func (r *SnapshotRepository) Load(ctx context.Context) (*snapshot.Document, error) {
	collection := r.db.Collection(SnapshotCollectionName)

	var stored snapshotDocument
	err := collection.FindOne(ctx, bson.M{"_id": r.key}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to load snapshot", "key", r.key, "error", err)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	doc, err := snapshot.Parse([]byte(stored.Payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", r.key, err)
	}
	return doc, nil
}

// Save replaces the stored snapshot when doc is newer, then archives the
// events. A newer stored version makes the upsert collide on _id, which is
// reported as ErrStaleSnapshot.
func (r *SnapshotRepository) Save(ctx context.Context, doc *snapshot.Document, events []shared.Event) error {
	payload, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	collection := r.db.Collection(SnapshotCollectionName)
	version := int64(doc.StateVersion)

	filter := bson.M{"_id": r.key, "state_version": bson.M{"$lt": version}}
	update := bson.M{
		"$set": bson.M{
			"state_version": version,
			"payload":       string(payload),
			"saved_at":      time.Now().UTC(),
		},
	}

	if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return snapshot.ErrStaleSnapshot{StateVersion: doc.StateVersion}
		}
		r.logger.Error("Failed to save snapshot",
			"key", r.key,
			"state_version", doc.StateVersion,
			"error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	now := time.Now().UTC()
	for _, event := range events {
		err := r.archive.Create(ctx, eventlog.NewRecord(event, now))
		if err != nil && !errors.Is(err, eventlog.ErrDuplicateRecord{}) {
			// The state is committed; a lost history entry must not fail the mutation
			r.logger.Warn("Failed to archive event",
				"event_id", event.ID.String(),
				"event_type", string(event.Type),
				"error", err)
		}
	}

	return nil
}
