package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var (
	frequency  string
	createDays []string
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new habit",
	Long: `Create a new recurring habit to track.

Frequencies:
  daily         - Every day
  weekly        - Once per week (Sunday to Saturday)
  twice_weekly  - Twice per week
  custom        - Chosen weekdays (use --days)

Examples:
  cadence habit create "Read" -f daily
  cadence habit create "Long run" -f weekly
  cadence habit create "Gym" -f custom --days mon,wed,fri`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		name := args[0]
		result, err := app.CreateHabitHandler.Handle(cmd.Context(), commands.CreateHabitCommand{
			UserID:    app.CurrentUserID,
			Name:      name,
			Frequency: frequency,
			Days:      splitDays(createDays),
		})
		if err != nil {
			return commandError(name, err)
		}
		app.Metrics.Counter(observability.MetricHabitsCreated, 1,
			observability.T("frequency", string(result.Frequency.Kind())))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created habit: %s\n", name)
		fmt.Fprintf(out, "  ID: %s\n", result.HabitID)
		fmt.Fprintf(out, "  Frequency: %s\n", result.Frequency)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "habit frequency (daily, weekly, twice_weekly, custom)")
	createCmd.Flags().StringSliceVar(&createDays, "days", nil, "weekdays for a custom habit, e.g. mon,wed,fri")
}
