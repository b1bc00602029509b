package habit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
)

// Cmd is the habit command group
var Cmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
	Long:  `Create, list, complete, and manage your recurring habits.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(freqCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(exportCmd)
}

var errNoDatabase = errors.New("habit commands require a database connection")

func requireApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.GetHabitHandler == nil {
		return nil, errNoDatabase
	}
	return app, nil
}

// resolveHabit finds a habit by ID, or by name when ref is not a UUID.
func resolveHabit(cmd *cobra.Command, app *cli.App, ref string, on *domain.Date) (*queries.HabitDTO, error) {
	query := queries.GetHabitQuery{UserID: app.CurrentUserID, On: on}
	if id, err := uuid.Parse(ref); err == nil {
		query.HabitID = id
	} else {
		query.Name = ref
	}

	dto, err := app.GetHabitHandler.Handle(cmd.Context(), query)
	if errors.Is(err, queries.ErrHabitNotFound) {
		return nil, fmt.Errorf("habit %q not found: %w", ref, err)
	}
	return dto, err
}

// parseDateFlag returns nil for an empty value so handlers fall back to today.
func parseDateFlag(value string) (*domain.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// splitDays accepts "mon,fri" as well as repeated flags.
func splitDays(values []string) []string {
	var days []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				days = append(days, part)
			}
		}
	}
	return days
}

// commandError turns domain and ownership errors into messages for the terminal.
func commandError(name string, err error) error {
	var notScheduled *domain.NotScheduledError
	switch {
	case errors.As(err, &notScheduled):
		return fmt.Errorf("%s is not scheduled on %s, it is scheduled on %s: %w",
			name, notScheduled.Date.Weekday(), notScheduled.Allowed, err)
	case errors.Is(err, domain.ErrAlreadyCompletedToday):
		return fmt.Errorf("%s was already completed on that day: %w", name, err)
	case errors.Is(err, commands.ErrHabitNotFound), errors.Is(err, commands.ErrNotOwner):
		return fmt.Errorf("habit %q not found: %w", name, err)
	case errors.Is(err, sharedDomain.ErrConcurrentModification):
		return fmt.Errorf("%s was changed by another session, run the command again: %w", name, err)
	case errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidWeekday),
		errors.Is(err, domain.ErrEmptyCustomDays),
		errors.Is(err, domain.ErrHabitEmptyName):
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
