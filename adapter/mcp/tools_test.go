package mcp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	internalApp "github.com/felixgeelhaar/cadence/internal/app"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// Wednesday.
var testNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func newTestServer() *mcp.Server {
	return mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})
}

func newTestTools(t *testing.T) (*habitTools, *observability.InMemoryMetrics) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "mcp.db"),
		UserID:         uuid.NewString(),
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, nil,
		internalApp.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(
		container.CreateHabitHandler,
		container.RecordCompletionHandler,
		container.ChangeFrequencyHandler,
		container.DeleteHabitHandler,
		container.ListHabitsHandler,
		container.GetHabitHandler,
		container.ExportHabitsHandler,
	)
	app.SetCurrentUserID(container.UserID)
	metrics := observability.NewInMemoryMetrics()
	app.SetMetrics(metrics)

	return &habitTools{app: app, logger: container.Logger}, metrics
}

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := newTestServer()

	app := cli.NewApp(nil, nil, nil, nil, nil, nil, nil)
	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: app}))
	require.NoError(t, RegisterResources(srv, ToolDependencies{App: app}))
	require.NoError(t, RegisterPrompts(srv, ToolDependencies{App: app}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make([]any, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool["name"])
	}
	for _, want := range []string{
		"cli.health",
		"habit.create",
		"habit.list",
		"habit.get",
		"habit.complete",
		"habit.change_frequency",
		"habit.delete",
	} {
		assert.Contains(t, names, want)
	}
}

func TestRegisterCLITools_RequiresDependencies(t *testing.T) {
	assert.Error(t, RegisterCLITools(nil, ToolDependencies{App: &cli.App{}}))
	assert.Error(t, RegisterCLITools(newTestServer(), ToolDependencies{}))
	assert.Error(t, RegisterResources(newTestServer(), ToolDependencies{}))
}

func TestHabitTools_Workflow(t *testing.T) {
	ctx := context.Background()
	tools, metrics := newTestTools(t)

	created, err := tools.create(ctx, habitCreateInput{Name: "Read"})
	require.NoError(t, err)
	assert.Equal(t, "Daily", created.Frequency)

	_, err = tools.create(ctx, habitCreateInput{Name: "Gym", Frequency: "custom", Days: []string{"Monday", "fri"}})
	require.NoError(t, err)

	list, err := tools.list(ctx, habitListInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, time.January, 10), list.Date)
	require.Len(t, list.Due, 1)
	assert.Equal(t, "Read", list.Due[0].Name)
	require.Len(t, list.NotDue, 1)
	assert.Equal(t, "Gym", list.NotDue[0].Name)

	done, err := tools.complete(ctx, habitRefInput{Habit: created.HabitID})
	require.NoError(t, err)
	assert.Equal(t, 1, done.CompletionCount)
	assert.False(t, done.IsDue)

	_, err = tools.complete(ctx, habitRefInput{Habit: "Read"})
	assert.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)

	_, err = tools.complete(ctx, habitRefInput{Habit: "Gym"})
	var notScheduled *domain.NotScheduledError
	require.ErrorAs(t, err, &notScheduled)
	assert.Equal(t, []string{"Monday", "Friday"}, notScheduled.Allowed.Names())

	monday, err := tools.complete(ctx, habitRefInput{Habit: "gym", Date: "2024-01-08"})
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, time.January, 8), monday.Date)

	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricOperationTotal,
		observability.T(observability.OperationKey, "habit.create")))
	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricOperationErrors,
		observability.T(observability.OperationKey, "habit.complete")))
	assert.Equal(t, float64(1), metrics.GetGauge(observability.MetricHabitsDue))
}

func TestHabitTools_ChangeFrequencyAndDelete(t *testing.T) {
	ctx := context.Background()
	tools, _ := newTestTools(t)

	_, err := tools.create(ctx, habitCreateInput{Name: "Stretch", Frequency: "daily"})
	require.NoError(t, err)

	updated, err := tools.changeFrequency(ctx, habitFrequencyInput{Habit: "Stretch", Frequency: "Twice a Week"})
	require.NoError(t, err)
	assert.Equal(t, "twice_weekly", updated.Frequency)

	got, err := tools.get(ctx, habitRefInput{Habit: "Stretch", Date: "2024-01-12"})
	require.NoError(t, err)
	assert.True(t, got.IsDue)

	deleted, err := tools.delete(ctx, habitRefInput{Habit: "Stretch"})
	require.NoError(t, err)
	assert.Equal(t, true, deleted["deleted"])

	_, err = tools.get(ctx, habitRefInput{Habit: "Stretch"})
	assert.ErrorIs(t, err, queries.ErrHabitNotFound)
}

func TestHabitTools_InputErrors(t *testing.T) {
	ctx := context.Background()
	tools, _ := newTestTools(t)

	_, err := tools.create(ctx, habitCreateInput{Name: "Gym", Frequency: "custom"})
	assert.ErrorIs(t, err, domain.ErrEmptyCustomDays)

	_, err = tools.list(ctx, habitListInput{Date: "yesterday"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = tools.get(ctx, habitRefInput{Habit: " "})
	assert.Error(t, err)
}

func TestHabitTools_NoDatabase(t *testing.T) {
	tools := &habitTools{app: &cli.App{Metrics: observability.NoopMetrics{}}}

	_, err := tools.create(context.Background(), habitCreateInput{Name: "Read"})
	assert.ErrorIs(t, err, errNoDatabase)

	_, err = tools.list(context.Background(), habitListInput{})
	assert.ErrorIs(t, err, errNoDatabase)
}
