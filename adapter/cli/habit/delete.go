package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [habit]",
	Short:   "Delete a habit and its history",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		habit, err := resolveHabit(cmd, app, args[0], nil)
		if err != nil {
			return err
		}

		if err := app.DeleteHabitHandler.Handle(cmd.Context(), commands.DeleteHabitCommand{
			HabitID: habit.ID,
			UserID:  app.CurrentUserID,
		}); err != nil {
			return commandError(habit.Name, err)
		}
		app.Metrics.Counter(observability.MetricHabitsDeleted, 1)

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit: %s\n", habit.Name)
		return nil
	},
}
