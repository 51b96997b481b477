package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a committed change to the society state
type EventType string

const (
	EventMemberRegistered        EventType = "member.registered"
	EventMemberUpdated           EventType = "member.updated"
	EventPassbookEntryAppended   EventType = "passbook.entry_appended"
	EventLoanRequested           EventType = "loan.requested"
	EventLoanApproved            EventType = "loan.approved"
	EventLoanRejected            EventType = "loan.rejected"
	EventLoanUpdated             EventType = "loan.updated"
	EventLoanDeleted             EventType = "loan.deleted"
	EventLoanDefaulted           EventType = "loan.defaulted"
	EventLoanCompleted           EventType = "loan.completed"
	EventFundEntryAppended       EventType = "fund.entry_appended"
	EventFundEntryDeleted        EventType = "fund.entry_deleted"
	EventMaturityOverrideSet     EventType = "maturity.override_set"
	EventMaturityOverrideCleared EventType = "maturity.override_cleared"
	EventSettingsUpdated         EventType = "settings.updated"
	EventDataImported            EventType = "data.imported"
)

// Event is emitted once per committed mutation and relayed through the outbox
type Event struct {
	ID           uuid.UUID       `json:"id" bson:"event_id"`
	Type         EventType       `json:"type" bson:"type"`
	AggregateID  string          `json:"aggregate_id" bson:"aggregate_id"`
	StateVersion uint64          `json:"state_version" bson:"state_version"`
	Payload      json.RawMessage `json:"payload" bson:"payload"`
	OccurredAt   time.Time       `json:"occurred_at" bson:"occurred_at"`
}

// NewEvent marshals payload and stamps the event with the committed state version
func NewEvent(eventType EventType, aggregateID string, payload any, version uint64, at time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:           uuid.New(),
		Type:         eventType,
		AggregateID:  aggregateID,
		StateVersion: version,
		Payload:      raw,
		OccurredAt:   at,
	}, nil
}
