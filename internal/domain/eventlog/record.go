// Package eventlog holds the archived history of domain events, as consumed
// from the event stream and queried by the event history endpoint.
package eventlog

import (
	"encoding/json"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
)

// Record is one archived domain event
type Record struct {
	EventID      string           `json:"eventId" bson:"event_id"`
	Type         shared.EventType `json:"type" bson:"type"`
	AggregateID  string           `json:"aggregateId" bson:"aggregate_id"`
	StateVersion uint64           `json:"stateVersion" bson:"state_version"`
	Payload      json.RawMessage  `json:"payload" bson:"payload"`
	OccurredAt   time.Time        `json:"occurredAt" bson:"occurred_at"`
	ArchivedAt   time.Time        `json:"archivedAt" bson:"archived_at"`
}

// NewRecord archives event at the given time
func NewRecord(event shared.Event, archivedAt time.Time) *Record {
	return &Record{
		EventID:      event.ID.String(),
		Type:         event.Type,
		AggregateID:  event.AggregateID,
		StateVersion: event.StateVersion,
		Payload:      event.Payload,
		OccurredAt:   event.OccurredAt.UTC(),
		ArchivedAt:   archivedAt.UTC(),
	}
}

// Filter narrows a history query. Zero fields match everything.
type Filter struct {
	AggregateID string
	Type        shared.EventType
	Since       *time.Time
	Until       *time.Time
}
