package habit

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showDate string

var showCmd = &cobra.Command{
	Use:   "show [habit]",
	Short: "Show a habit and its completion history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		on, err := parseDateFlag(showDate)
		if err != nil {
			return err
		}
		h, err := resolveHabit(cmd, app, args[0], on)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", h.Name)
		fmt.Fprintf(out, "  ID: %s\n", h.ID)
		fmt.Fprintf(out, "  Frequency: %s\n", h.FrequencyLabel)
		fmt.Fprintf(out, "  Due: %t\n", h.IsDue)
		fmt.Fprintf(out, "  Completions: %d\n", h.CompletionCount)
		if len(h.CompletionRecord) > 0 {
			dates := make([]string, 0, len(h.CompletionRecord))
			for _, d := range h.CompletionRecord {
				dates = append(dates, d.String())
			}
			fmt.Fprintf(out, "  History: %s\n", strings.Join(dates, ", "))
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "reference date (YYYY-MM-DD), defaults to today")
}
