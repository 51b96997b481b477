package outbox

import (
	"encoding/json"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Message stores a domain event for reliable publishing
type Message struct {
	ID            int64               `json:"id"`
	EventID       uuid.UUID           `json:"event_id"`
	EventType     shared.EventType    `json:"event_type"`
	AggregateID   string              `json:"aggregate_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps the whole event as the payload so the relay can publish it unchanged
func NewMessage(event shared.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:     event.ID,
		EventType:   event.Type,
		AggregateID: event.AggregateID,
		Payload:     payload,
		Status:      shared.OutboxStatusPending,
		Attempts:    0,
		CreatedAt:   event.OccurredAt,
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetEvent extracts the domain event from the payload
func (m *Message) GetEvent() (*shared.Event, error) {
	var event shared.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
