package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var doneDate string

var doneCmd = &cobra.Command{
	Use:   "done [habit]",
	Short: "Mark a habit as completed",
	Long: `Record that a habit was completed today, or on --date.

The habit can be given by ID or by name. Custom habits can only be
completed on their scheduled weekdays, and no habit can be completed
twice on the same day.

Examples:
  cadence habit done Read
  cadence habit done 2f1c... --date 2024-01-08`,
	Aliases: []string{"complete", "log"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		on, err := parseDateFlag(doneDate)
		if err != nil {
			return err
		}
		habit, err := resolveHabit(cmd, app, args[0], on)
		if err != nil {
			return err
		}

		result, err := app.RecordCompletionHandler.Handle(cmd.Context(), commands.RecordCompletionCommand{
			HabitID: habit.ID,
			UserID:  app.CurrentUserID,
			On:      on,
		})
		if err != nil {
			return commandError(habit.Name, err)
		}
		app.Metrics.Counter(observability.MetricHabitCompletions, 1,
			observability.T("frequency", habit.Frequency))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Completed %s on %s\n", result.Name, result.Date)
		fmt.Fprintf(out, "  Total completions: %d\n", result.CompletionCount)
		return nil
	},
}

func init() {
	doneCmd.Flags().StringVar(&doneDate, "date", "", "completion date (YYYY-MM-DD), defaults to today")
}
