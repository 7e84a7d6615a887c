package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/vidhub/account-service/internal/core/domain"
)

// insertedEvent returns the single document sent by the last insert command.
func insertedEvent(mt *mtest.T) bson.Raw {
	mt.Helper()
	started := mt.GetStartedEvent()
	require.NotNil(mt, started, "no command was sent")
	require.Equal(mt, "insert", started.CommandName)
	assert.Equal(mt, sessionEventsCollection, started.Command.Lookup("insert").StringValue())

	val, err := started.Command.LookupErr("documents", "0")
	require.NoError(mt, err)
	return val.Document()
}

func TestSessionEventRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert writes the audit document", func(mt *mtest.T) {
		repo := NewSessionEventRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		occurred := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
		before := time.Now().UTC().Truncate(time.Millisecond)
		err := repo.InsertEvent(ctx, &domain.SessionEvent{
			UserID:     "64f1c0",
			Type:       domain.EventRefreshReuseDetected,
			OccurredAt: occurred,
			Detail:     "stale token presented",
		})
		require.NoError(mt, err)

		doc := insertedEvent(mt)
		assert.Equal(mt, "64f1c0", doc.Lookup("user_id").StringValue())
		assert.Equal(mt, "refresh_reuse_detected", doc.Lookup("type").StringValue())
		assert.True(mt, occurred.Equal(doc.Lookup("occurred_at").Time()))
		assert.Equal(mt, "stale token presented", doc.Lookup("detail").StringValue())

		recorded := doc.Lookup("recorded_at").Time()
		assert.False(mt, recorded.Before(before), "recorded_at %v before %v", recorded, before)
	})

	mt.Run("insert omits an empty detail", func(mt *mtest.T) {
		repo := NewSessionEventRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.InsertEvent(ctx, &domain.SessionEvent{
			UserID:     "64f1c0",
			Type:       domain.EventLoggedIn,
			OccurredAt: time.Now(),
		})
		require.NoError(mt, err)

		doc := insertedEvent(mt)
		assert.Equal(mt, "logged_in", doc.Lookup("type").StringValue())
		_, err = doc.LookupErr("detail")
		assert.Error(mt, err, "detail should not be stored when empty")
	})

	mt.Run("insert surfaces write errors", func(mt *mtest.T) {
		repo := NewSessionEventRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "document failed validation",
		}))

		err := repo.InsertEvent(ctx, &domain.SessionEvent{UserID: "64f1c0", Type: domain.EventLoggedOut, OccurredAt: time.Now()})
		assert.Error(mt, err)
	})
}
