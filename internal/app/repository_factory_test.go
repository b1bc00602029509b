package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/habits/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nopCache) Delete(context.Context, ...string) error { return nil }

func newSQLiteConn(t *testing.T) database.Connection {
	t.Helper()
	conn, err := sqlite.NewConnection(context.Background(), database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRepositoryFactory_SQLite(t *testing.T) {
	factory := NewRepositoryFactory(newSQLiteConn(t))
	assert.Equal(t, database.DriverSQLite, factory.Driver())

	habits, err := factory.HabitRepository()
	require.NoError(t, err)
	assert.IsType(t, &persistence.SQLiteHabitRepository{}, habits)

	out, err := factory.OutboxRepository()
	require.NoError(t, err)
	assert.IsType(t, &outbox.SQLRepository{}, out)
}

func TestRepositoryFactory_WithCache(t *testing.T) {
	factory := NewRepositoryFactory(newSQLiteConn(t)).WithCache(nopCache{}, time.Minute, nil)

	habits, err := factory.HabitRepository()
	require.NoError(t, err)
	assert.IsType(t, &persistence.CachedHabitRepository{}, habits)
}

func TestRepositoryFactory_UnsupportedDriver(t *testing.T) {
	factory := &RepositoryFactory{conn: newSQLiteConn(t), driver: "mysql"}

	_, err := factory.HabitRepository()
	assert.Error(t, err)

	_, err = factory.OutboxRepository()
	assert.Error(t, err)
}
