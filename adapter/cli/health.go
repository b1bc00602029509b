package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and cache connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		if app.Health == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}

		report := app.Health.Check(cmd.Context())
		out := cmd.OutOrStdout()
		for _, name := range app.Health.Names() {
			result := report.Checks[name]
			fmt.Fprintf(out, "%-10s %-9s %s\n", name, result.Status, result.Message)
		}
		fmt.Fprintf(out, "overall: %s\n", report.Status)

		if report.Status == observability.HealthStatusUnhealthy {
			return errors.New("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
