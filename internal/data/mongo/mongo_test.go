package mongo

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// toBSON round-trips v through the driver codecs so mock server replies
// carry exactly what the repository would have written.
func toBSON(t require.TestingT, v any) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func testRecord(t require.TestingT, eventType shared.EventType, aggregateID string, version uint64) *eventlog.Record {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event, err := shared.NewEvent(eventType, aggregateID, map[string]string{"id": aggregateID}, version, at)
	require.NoError(t, err)
	return eventlog.NewRecord(event, at.Add(time.Second))
}

type MockEventArchive struct {
	mock.Mock
}

func (m *MockEventArchive) Create(ctx context.Context, record *eventlog.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockEventArchive) GetByEventID(ctx context.Context, eventID string) (*eventlog.Record, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventlog.Record), args.Error(1)
}

func (m *MockEventArchive) List(ctx context.Context, filter eventlog.Filter, limit, offset int) ([]*eventlog.Record, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventlog.Record), args.Error(1)
}

func (m *MockEventArchive) Count(ctx context.Context, filter eventlog.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
