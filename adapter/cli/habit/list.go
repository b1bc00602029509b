package habit

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var (
	listDate      string
	listFrequency string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits split by whether they are due",
	Long: `List all habits, split into the ones that still need doing and the
ones that do not.

Examples:
  cadence habit list                     # Today
  cadence habit list --date 2024-01-08   # Another day
  cadence habit list --frequency daily   # Daily habits only`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		on, err := parseDateFlag(listDate)
		if err != nil {
			return err
		}

		result, err := app.ListHabitsHandler.Handle(cmd.Context(), queries.ListHabitsQuery{
			UserID:    app.CurrentUserID,
			On:        on,
			Frequency: listFrequency,
		})
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}
		app.Metrics.Gauge(observability.MetricHabitsDue, float64(len(result.Due)))

		out := cmd.OutOrStdout()
		if len(result.Due)+len(result.NotDue) == 0 {
			fmt.Fprintln(out, "No habits found. Create one with: cadence habit create \"Habit name\"")
			return nil
		}

		fmt.Fprintf(out, "Habits for %s %s\n", result.Date.Weekday().String()[:3], result.Date)
		fmt.Fprintln(out, strings.Repeat("-", 60))
		printSection(out, "Due", result.Due)
		printSection(out, "Not due", result.NotDue)
		return nil
	},
}

func printSection(out io.Writer, title string, habits []queries.HabitDTO) {
	fmt.Fprintf(out, "%s (%d):\n", title, len(habits))
	for _, h := range habits {
		status := "[-]"
		switch {
		case h.CompletedOnDate:
			status = "[x]"
		case h.IsDue:
			status = "[ ]"
		}
		fmt.Fprintf(out, "  %s %s (%s) - %s\n", status, h.Name, h.FrequencyLabel, plural(h.CompletionCount, "completion"))
		fmt.Fprintf(out, "      ID: %s\n", h.ID)
	}
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "reference date (YYYY-MM-DD), defaults to today")
	listCmd.Flags().StringVarP(&listFrequency, "frequency", "f", "", "filter by frequency (daily, weekly, twice_weekly, custom)")
}
