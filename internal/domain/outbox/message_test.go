package outbox

import (
	"testing"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T) shared.Event {
	t.Helper()
	ev, err := shared.NewEvent(shared.EventPassbookEntryAppended, "m-1",
		map[string]string{"entry_id": "e-1"}, 3, time.Now().Add(-time.Minute).Truncate(time.Millisecond))
	require.NoError(t, err)
	return ev
}

func TestNewMessage(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		event := newEvent(t)

		msg, err := NewMessage(event)
		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, event.ID, msg.EventID)
		assert.Equal(t, event.Type, msg.EventType)
		assert.Equal(t, "m-1", msg.AggregateID)
		assert.Equal(t, shared.OutboxStatusPending, msg.Status)
		assert.Equal(t, 0, msg.Attempts)
		assert.Nil(t, msg.LastAttemptAt)
		assert.Equal(t, event.OccurredAt, msg.CreatedAt)
	})
}

func TestMessage_IncrementAttempts(t *testing.T) {
	t.Run("SuccessfulIncrement", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Attempts:      1,
			LastAttemptAt: &initialTime,
		}

		msg.IncrementAttempts()

		assert.Equal(t, 2, msg.Attempts)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
	})
}

func TestMessage_MarkAsProcessed(t *testing.T) {
	initialTime := time.Now().Add(-time.Hour)
	msg := &Message{Status: shared.OutboxStatusPending, LastAttemptAt: &initialTime}

	msg.MarkAsProcessed()

	assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)
	require.NotNil(t, msg.LastAttemptAt)
	assert.True(t, msg.LastAttemptAt.After(initialTime))
}

func TestMessage_MarkAsFailed(t *testing.T) {
	initialTime := time.Now().Add(-time.Hour)
	msg := &Message{Status: shared.OutboxStatusPending, LastAttemptAt: &initialTime}

	msg.MarkAsFailed()

	assert.Equal(t, shared.OutboxStatusFailedToPublish, msg.Status)
	require.NotNil(t, msg.LastAttemptAt)
	assert.True(t, msg.LastAttemptAt.After(initialTime))
}

func TestMessage_GetEvent(t *testing.T) {
	event := newEvent(t)
	msg, err := NewMessage(event)
	require.NoError(t, err)

	decoded, err := msg.GetEvent()
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.StateVersion, decoded.StateVersion)
	assert.JSONEq(t, string(event.Payload), string(decoded.Payload))
	assert.True(t, event.OccurredAt.Equal(decoded.OccurredAt))

	_, err = (&Message{Payload: []byte("{")}).GetEvent()
	assert.Error(t, err)
}
