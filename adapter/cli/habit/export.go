package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/security"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export habits as JSON",
	Long: `Export every habit with its completion history as a JSON array.

Examples:
  cadence habit export                  # Export to stdout
  cadence habit export -o habits.json   # Export to file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		data, err := app.ExportHabitsHandler.Handle(cmd.Context(), queries.ExportHabitsQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to export habits: %w", err)
		}

		if exportOutput == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		path, err := security.SafeWriteFile(exportOutput, append(data, '\n'))
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported habits to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}
