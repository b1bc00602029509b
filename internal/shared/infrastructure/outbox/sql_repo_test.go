package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) (*outbox.SQLRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return outbox.NewSQLRepository(conn), conn
}

func TestSQLRepository_SaveAndGetUnpublished(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	first := pending("habits.habit.created")
	first.CreatedAt = time.Now().Add(-time.Minute)
	second := pending("habits.habit.completed")

	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.EventID, msgs[0].EventID)
	assert.Equal(t, first.AggregateID, msgs[0].AggregateID)
	assert.Equal(t, "Habit", msgs[0].AggregateType)
	assert.Equal(t, "habits.habit.created", msgs[0].RoutingKey)
	assert.JSONEq(t, string(first.Payload), string(msgs[0].Payload))
	assert.True(t, first.CreatedAt.UTC().Equal(msgs[0].CreatedAt))
	assert.Nil(t, msgs[0].PublishedAt)

	limited, err := repo.GetUnpublished(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	published := pending("habits.habit.created")
	retrying := pending("habits.habit.completed")
	dead := pending("habits.habit.deleted")
	for _, m := range []*outbox.Message{published, retrying, dead} {
		require.NoError(t, repo.Save(ctx, m))
	}

	require.NoError(t, repo.MarkPublished(ctx, published.ID))
	require.NoError(t, repo.MarkFailed(ctx, retrying.ID, "broker unavailable", time.Now().Add(time.Hour)))
	require.NoError(t, repo.MarkDead(ctx, dead.ID, "max retries exceeded"))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, repo.MarkFailed(ctx, retrying.ID, "still unavailable", time.Now().Add(-time.Second)))

	failed, err := repo.GetFailed(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, retrying.ID, failed[0].ID)
	assert.Equal(t, 2, failed[0].RetryCount)
	require.NotNil(t, failed[0].LastError)
	assert.Equal(t, "still unavailable", *failed[0].LastError)
	assert.NotNil(t, failed[0].NextRetryAt)

	exhausted, err := repo.GetFailed(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, exhausted)

	msgs, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, retrying.ID, msgs[0].ID)
}

func TestSQLRepository_DeleteOld(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	done := pending("habits.habit.created")
	open := pending("habits.habit.completed")
	require.NoError(t, repo.Save(ctx, done))
	require.NoError(t, repo.Save(ctx, open))
	require.NoError(t, repo.MarkPublished(ctx, done.ID))

	n, err := repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, n)

	time.Sleep(2 * time.Millisecond)
	n, err = repo.DeleteOld(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, open.ID, msgs[0].ID)
}

func TestSQLRepository_SaveJoinsUnitOfWork(t *testing.T) {
	ctx := context.Background()
	repo, conn := newSQLiteRepo(t)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(txCtx, pending("habits.habit.created")))
	require.NoError(t, uow.Rollback(txCtx))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
