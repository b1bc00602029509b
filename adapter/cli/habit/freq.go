package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
)

var freqDays []string

var freqCmd = &cobra.Command{
	Use:   "freq [habit] [frequency]",
	Short: "Change how often a habit repeats",
	Long: `Change a habit's frequency. Completion history is kept.

Examples:
  cadence habit freq Read weekly
  cadence habit freq Gym custom --days tue,thu`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		habit, err := resolveHabit(cmd, app, args[0], nil)
		if err != nil {
			return err
		}

		if err := app.ChangeFrequencyHandler.Handle(cmd.Context(), commands.ChangeFrequencyCommand{
			HabitID:   habit.ID,
			UserID:    app.CurrentUserID,
			Frequency: args[1],
			Days:      splitDays(freqDays),
		}); err != nil {
			return commandError(habit.Name, err)
		}

		updated, err := resolveHabit(cmd, app, habit.ID.String(), nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s now repeats: %s\n", updated.Name, updated.FrequencyLabel)
		return nil
	},
}

func init() {
	freqCmd.Flags().StringSliceVar(&freqDays, "days", nil, "weekdays for a custom habit, e.g. mon,wed,fri")
}
