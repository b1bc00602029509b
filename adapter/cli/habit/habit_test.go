package habit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	internalApp "github.com/felixgeelhaar/cadence/internal/app"
	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// testUserID is a fixed user ID for tests
var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Wednesday 2024-01-10.
var testNow = time.Date(2024, time.January, 10, 8, 30, 0, 0, time.UTC)

// setupLocalModeTestApp creates a test application with SQLite for integration tests.
func setupLocalModeTestApp(t *testing.T) (*cli.App, *observability.InMemoryMetrics) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel:       "error",
		UserID:         testUserID.String(),
	}

	container, err := internalApp.NewContainer(context.Background(), cfg, nil,
		internalApp.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	metrics := observability.NewInMemoryMetrics()
	app := cli.NewApp(
		container.CreateHabitHandler,
		container.RecordCompletionHandler,
		container.ChangeFrequencyHandler,
		container.DeleteHabitHandler,
		container.ListHabitsHandler,
		container.GetHabitHandler,
		container.ExportHabitsHandler,
	)
	app.SetCurrentUserID(testUserID)
	app.SetMetrics(metrics)

	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	resetFlags()
	return app, metrics
}

func resetFlags() {
	frequency = "daily"
	createDays = nil
	listDate = ""
	listFrequency = ""
	doneDate = ""
	showDate = ""
	freqDays = nil
	exportOutput = ""
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetOut(nil) })
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func createHabit(t *testing.T, name, freq string, days ...string) {
	t.Helper()
	frequency = freq
	createDays = days
	_, err := run(t, createCmd, name)
	require.NoError(t, err)
	frequency = "daily"
	createDays = nil
}

func TestCreateCmd_CreatesHabit(t *testing.T) {
	app, metrics := setupLocalModeTestApp(t)

	out, err := run(t, createCmd, "Morning Exercise")
	require.NoError(t, err)
	assert.Contains(t, out, "Created habit: Morning Exercise")
	assert.Contains(t, out, "Frequency: Daily")

	dto, err := app.GetHabitHandler.Handle(context.Background(), habitQueries.GetHabitQuery{
		UserID: testUserID,
		Name:   "morning exercise",
	})
	require.NoError(t, err)
	assert.Equal(t, "daily", dto.Frequency)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricHabitsCreated, observability.T("frequency", "daily")))
}

func TestCreateCmd_WithCustomFrequency(t *testing.T) {
	setupLocalModeTestApp(t)

	frequency = "custom"
	createDays = []string{"fri,mon"}
	out, err := run(t, createCmd, "Gym")
	require.NoError(t, err)
	assert.Contains(t, out, "Custom (Monday, Friday)")
}

func TestCreateCmd_InvalidInput(t *testing.T) {
	setupLocalModeTestApp(t)

	frequency = "custom"
	_, err := run(t, createCmd, "Gym")
	assert.ErrorIs(t, err, domain.ErrEmptyCustomDays)

	frequency = "hourly"
	_, err = run(t, createCmd, "Gym")
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)

	frequency = "daily"
	_, err = run(t, createCmd, "   ")
	assert.ErrorIs(t, err, domain.ErrHabitEmptyName)
}

func TestListCmd_SplitsDueAndNotDue(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")
	createHabit(t, "Gym", "custom", "mon", "fri")

	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Habits for Wed 2024-01-10")
	assert.Contains(t, out, "Due (1):\n  [ ] Read (Daily) - 0 completions")
	assert.Contains(t, out, "Not due (1):\n  [-] Gym (Custom (Monday, Friday)) - 0 completions")

	listDate = "2024-01-08"
	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Due (2):")
}

func TestListCmd_FrequencyFilter(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")
	createHabit(t, "Stretch", "weekly")

	listFrequency = "weekly"
	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Stretch")
	assert.NotContains(t, out, "Read")
}

func TestListCmd_EmptyList(t *testing.T) {
	setupLocalModeTestApp(t)

	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No habits found")
}

func TestListCmd_InvalidDate(t *testing.T) {
	setupLocalModeTestApp(t)

	listDate = "10/01/2024"
	_, err := run(t, listCmd)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestDoneCmd_RecordsCompletion(t *testing.T) {
	_, metrics := setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")

	out, err := run(t, doneCmd, "read")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed Read on 2024-01-10")
	assert.Contains(t, out, "Total completions: 1")
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricHabitCompletions, observability.T("frequency", "daily")))

	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Read (Daily) - 1 completion\n")

	_, err = run(t, doneCmd, "Read")
	assert.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)
	assert.Contains(t, err.Error(), "already completed")
}

func TestDoneCmd_CustomScheduleEnforced(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Gym", "custom", "mon", "fri")

	_, err := run(t, doneCmd, "Gym")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotScheduledToday)
	assert.Contains(t, err.Error(), "Monday, Friday")

	doneDate = "2024-01-08"
	out, err := run(t, doneCmd, "Gym")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed Gym on 2024-01-08")
}

func TestListCmd_TwiceWeeklyDueAtWeekEnd(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Swim", "twice_weekly")

	doneDate = "2024-01-08"
	_, err := run(t, doneCmd, "Swim")
	require.NoError(t, err)

	listDate = "2024-01-12"
	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Due (1):\n  [ ] Swim (Twice a Week) - 1 completion\n")

	doneDate = "2024-01-11"
	_, err = run(t, doneCmd, "Swim")
	require.NoError(t, err)

	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Due (0):")
}

func TestDoneCmd_UnknownHabit(t *testing.T) {
	setupLocalModeTestApp(t)

	_, err := run(t, doneCmd, "Nope")
	assert.ErrorIs(t, err, habitQueries.ErrHabitNotFound)

	_, err = run(t, doneCmd, uuid.NewString())
	assert.ErrorIs(t, err, habitQueries.ErrHabitNotFound)
}

func TestShowCmd(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")
	doneDate = "2024-01-09"
	_, err := run(t, doneCmd, "Read")
	require.NoError(t, err)
	doneDate = ""
	_, err = run(t, doneCmd, "Read")
	require.NoError(t, err)

	out, err := run(t, showCmd, "Read")
	require.NoError(t, err)
	assert.Contains(t, out, "Frequency: Daily")
	assert.Contains(t, out, "Due: false")
	assert.Contains(t, out, "Completions: 2")
	assert.Contains(t, out, "History: 2024-01-09, 2024-01-10")
}

func TestFreqCmd_ChangesFrequency(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")

	freqDays = []string{"tue", "thu"}
	out, err := run(t, freqCmd, "Read", "custom")
	require.NoError(t, err)
	assert.Contains(t, out, "Read now repeats: Custom (Tuesday, Thursday)")

	freqDays = nil
	_, err = run(t, freqCmd, "Read", "monthly")
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)
}

func TestDeleteCmd_DeletesHabit(t *testing.T) {
	_, metrics := setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")

	out, err := run(t, deleteCmd, "Read")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted habit: Read")
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricHabitsDeleted))

	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No habits found")
}

func TestExportCmd_WritesFile(t *testing.T) {
	setupLocalModeTestApp(t)
	createHabit(t, "Read", "daily")
	_, err := run(t, doneCmd, "Read")
	require.NoError(t, err)

	exportOutput = filepath.Join(t.TempDir(), "habits.json")
	out, err := run(t, exportCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported habits to")

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)
	habits, err := domain.UnmarshalHabits(data)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Read", habits[0].Name())
	assert.Equal(t, 1, habits[0].CompletionCount())
}

func TestCommands_NoApp(t *testing.T) {
	cli.SetApp(nil)

	for _, cmd := range []*cobra.Command{createCmd, listCmd, doneCmd, showCmd, deleteCmd, exportCmd} {
		_, err := run(t, cmd, "Read")
		assert.ErrorIs(t, err, errNoDatabase, cmd.Name())
	}
}

func TestSplitDays(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"nil", nil, nil},
		{"single", []string{"mon"}, []string{"mon"}},
		{"comma separated", []string{"mon, wed,fri"}, []string{"mon", "wed", "fri"}},
		{"repeated flags", []string{"mon", "tue"}, []string{"mon", "tue"}},
		{"empty parts", []string{",mon,,"}, []string{"mon"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitDays(tc.values))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 completions", plural(0, "completion"))
	assert.Equal(t, "1 completion", plural(1, "completion"))
	assert.Equal(t, "3 completions", plural(3, "completion"))
}

func TestExportCmd_RejectsUnsafePath(t *testing.T) {
	setupLocalModeTestApp(t)

	exportOutput = "habits.json; rm -rf ~"
	_, err := run(t, exportCmd)
	assert.ErrorIs(t, err, security.ErrUnsafePath)
}

func TestCommandError_ConcurrentSave(t *testing.T) {
	saveErr := fmt.Errorf("%w: habit was saved by another writer", sharedDomain.ErrConcurrentModification)

	err := commandError("Read", saveErr)

	require.ErrorIs(t, err, sharedDomain.ErrConcurrentModification)
	assert.Contains(t, err.Error(), "Read was changed by another session, run the command again")
}
