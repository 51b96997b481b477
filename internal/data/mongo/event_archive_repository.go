// Package mongo provides the MongoDB side of the society ledger: the
// archive of consumed domain events and the alternative snapshot store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
)

const (
	// EventArchiveCollectionName is the name of the archived events collection in MongoDB
	EventArchiveCollectionName = "society_events"
)

// EventArchiveRepository implements the eventlog.Repository interface for MongoDB
type EventArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewEventArchiveRepository creates a new MongoDB event archive repository
func NewEventArchiveRepository(logger *slog.Logger, db *mongo.Database) *EventArchiveRepository {
	return &EventArchiveRepository{
		db:     db,
		logger: logger,
	}
}

var _ eventlog.Repository = (*EventArchiveRepository)(nil)

// EnsureIndexes creates the unique event id index and the history lookup index
func (r *EventArchiveRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(EventArchiveCollectionName)

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "aggregate_id", Value: 1}, {Key: "occurred_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create event archive indexes: %w", err)
	}
	return nil
}

// Create archives a record after checking for duplicates.
// Returns ErrDuplicateRecord if the event was archived before.
func (r *EventArchiveRepository) Create(ctx context.Context, record *eventlog.Record) error {
	collection := r.db.Collection(EventArchiveCollectionName)

	existing, err := r.GetByEventID(ctx, record.EventID)
	if err != nil && !errors.Is(err, eventlog.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for archived event",
			"event_id", record.EventID,
			"error", err)
		return fmt.Errorf("failed to check for archived event: %w", err)
	}
	if existing != nil {
		return eventlog.ErrDuplicateRecord{EventID: record.EventID}
	}

	if _, err := collection.InsertOne(ctx, record); err != nil {
		// A concurrent archiver may win the race; the unique index reports it
		if mongo.IsDuplicateKeyError(err) {
			return eventlog.ErrDuplicateRecord{EventID: record.EventID}
		}
		r.logger.Error("Failed to archive event",
			"event_id", record.EventID,
			"error", err)
		return fmt.Errorf("failed to archive event: %w", err)
	}

	return nil
}

// GetByEventID retrieves an archived event by its event ID.
// Returns ErrRecordNotFound if it was never archived.
func (r *EventArchiveRepository) GetByEventID(ctx context.Context, eventID string) (*eventlog.Record, error) {
	collection := r.db.Collection(EventArchiveCollectionName)

	var record eventlog.Record
	err := collection.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventlog.ErrRecordNotFound{EventID: eventID}
		}
		r.logger.Error("Failed to get archived event",
			"event_id", eventID,
			"error", err)
		return nil, fmt.Errorf("failed to get archived event: %w", err)
	}

	return &record, nil
}

// List returns a page of archived events, newest first
func (r *EventArchiveRepository) List(ctx context.Context, filter eventlog.Filter, limit, offset int) ([]*eventlog.Record, error) {
	collection := r.db.Collection(EventArchiveCollectionName)

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "state_version", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		r.logger.Error("Failed to list archived events",
			"aggregate_id", filter.AggregateID,
			"error", err)
		return nil, fmt.Errorf("failed to list archived events: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*eventlog.Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode archived events",
			"aggregate_id", filter.AggregateID,
			"error", err)
		return nil, fmt.Errorf("failed to decode archived events: %w", err)
	}

	return records, nil
}

// Count counts the archived events matching filter
func (r *EventArchiveRepository) Count(ctx context.Context, filter eventlog.Filter) (int64, error) {
	collection := r.db.Collection(EventArchiveCollectionName)

	count, err := collection.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		r.logger.Error("Failed to count archived events",
			"aggregate_id", filter.AggregateID,
			"error", err)
		return 0, fmt.Errorf("failed to count archived events: %w", err)
	}

	return count, nil
}

func filterDocument(filter eventlog.Filter) bson.M {
	doc := bson.M{}
	if filter.AggregateID != "" {
		doc["aggregate_id"] = filter.AggregateID
	}
	if filter.Type != "" {
		doc["type"] = filter.Type
	}

	occurred := bson.M{}
	if filter.Since != nil {
		occurred["$gte"] = filter.Since.UTC()
	}
	if filter.Until != nil {
		occurred["$lte"] = filter.Until.UTC()
	}
	if len(occurred) > 0 {
		doc["occurred_at"] = occurred
	}
	return doc
}
