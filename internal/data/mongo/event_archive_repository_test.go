package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func archiveNamespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + EventArchiveCollectionName
}

func TestEventArchiveRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("inserts new record", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		err := repo.Create(ctx, testRecord(mt, shared.EventMemberRegistered, "m-1", 1))
		assert.NoError(mt, err)
	})

	mt.Run("already archived", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		record := testRecord(mt, shared.EventMemberRegistered, "m-1", 1)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch, toBSON(mt, record)),
		)

		err := repo.Create(ctx, record)
		assert.ErrorIs(mt, err, eventlog.ErrDuplicateRecord{EventID: record.EventID})
	})

	mt.Run("duplicate key on insert", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		record := testRecord(mt, shared.EventLoanApproved, "l-1", 2)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		err := repo.Create(ctx, record)
		assert.ErrorIs(mt, err, eventlog.ErrDuplicateRecord{})
	})

	mt.Run("lookup failure", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad query"}),
		)

		err := repo.Create(ctx, testRecord(mt, shared.EventLoanApproved, "l-1", 2))
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to check for archived event")
	})
}

func TestEventArchiveRepository_GetByEventID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("found", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		record := testRecord(mt, shared.EventFundEntryAppended, "admin", 4)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch, toBSON(mt, record)),
		)

		found, err := repo.GetByEventID(ctx, record.EventID)
		require.NoError(mt, err)
		assert.Equal(mt, record.EventID, found.EventID)
		assert.Equal(mt, shared.EventFundEntryAppended, found.Type)
		assert.Equal(mt, uint64(4), found.StateVersion)
		assert.JSONEq(mt, string(record.Payload), string(found.Payload))
		assert.True(mt, record.OccurredAt.Equal(found.OccurredAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch))

		found, err := repo.GetByEventID(ctx, "missing")
		assert.Nil(mt, found)
		assert.ErrorIs(mt, err, eventlog.ErrRecordNotFound{EventID: "missing"})
	})
}

func TestEventArchiveRepository_ListAndCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list page", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		first := testRecord(mt, shared.EventLoanCompleted, "l-1", 8)
		second := testRecord(mt, shared.EventLoanApproved, "l-1", 3)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch, toBSON(mt, first), toBSON(mt, second)),
		)

		records, err := repo.List(ctx, eventlog.Filter{AggregateID: "l-1"}, 10, 0)
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, shared.EventLoanCompleted, records[0].Type)
		assert.Equal(mt, shared.EventLoanApproved, records[1].Type)
	})

	mt.Run("empty page is not nil", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch))

		records, err := repo.List(ctx, eventlog.Filter{}, 10, 20)
		require.NoError(mt, err)
		assert.NotNil(mt, records)
		assert.Empty(mt, records)
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := NewEventArchiveRepository(newTestLogger(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, archiveNamespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
		)

		count, err := repo.Count(ctx, eventlog.Filter{Type: shared.EventLoanApproved})
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), count)
	})
}

func TestFilterDocument(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 1, 0)

	assert.Equal(t, bson.M{}, filterDocument(eventlog.Filter{}))
	assert.Equal(t, bson.M{
		"aggregate_id": "m-1",
		"type":         shared.EventMemberUpdated,
		"occurred_at":  bson.M{"$gte": since, "$lte": until},
	}, filterDocument(eventlog.Filter{AggregateID: "m-1", Type: shared.EventMemberUpdated, Since: &since, Until: &until}))
	assert.Equal(t, bson.M{"occurred_at": bson.M{"$gte": since}}, filterDocument(eventlog.Filter{Since: &since}))
}
