package mcp

import (
	"github.com/google/uuid"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
		container.CreateHabitHandler,
		container.RecordCompletionHandler,
		container.ChangeFrequencyHandler,
		container.DeleteHabitHandler,
		container.ListHabitsHandler,
		container.GetHabitHandler,
		container.ExportHabitsHandler,
	)

	cliApp.SetCurrentUserID(currentUser)
	cliApp.SetHealth(container.Health)
	if container.Metrics != nil {
		cliApp.SetMetrics(container.Metrics)
	}

	return cliApp
}
