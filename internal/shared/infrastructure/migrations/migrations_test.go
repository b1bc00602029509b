package migrations

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	pending, err := Pending(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_habits.up.sql", "0002_outbox.up.sql"}, pending)

	require.NoError(t, Run(ctx, conn))

	pending, err = Pending(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Second run is a no-op.
	require.NoError(t, Run(ctx, conn))

	for _, table := range []string{"habits", "habit_completions", "outbox"} {
		var n int
		err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`-- header
CREATE TABLE a (
    id INT
);

CREATE INDEX i ON a (id);
`)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (\n    id INT\n)", stmts[0])
	assert.Equal(t, "CREATE INDEX i ON a (id)", stmts[1])
}
