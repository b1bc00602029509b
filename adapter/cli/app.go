package cli

import (
	"github.com/google/uuid"

	habitCommands "github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Habit Command Handlers
	CreateHabitHandler      *habitCommands.CreateHabitHandler
	RecordCompletionHandler *habitCommands.RecordCompletionHandler
	ChangeFrequencyHandler  *habitCommands.ChangeFrequencyHandler
	DeleteHabitHandler      *habitCommands.DeleteHabitHandler

	// Habit Query Handlers
	ListHabitsHandler   *habitQueries.ListHabitsHandler
	GetHabitHandler     *habitQueries.GetHabitHandler
	ExportHabitsHandler *habitQueries.ExportHabitsHandler

	Health  *observability.HealthRegistry
	Metrics observability.Metrics

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createHabitHandler *habitCommands.CreateHabitHandler,
	recordCompletionHandler *habitCommands.RecordCompletionHandler,
	changeFrequencyHandler *habitCommands.ChangeFrequencyHandler,
	deleteHabitHandler *habitCommands.DeleteHabitHandler,
	listHabitsHandler *habitQueries.ListHabitsHandler,
	getHabitHandler *habitQueries.GetHabitHandler,
	exportHabitsHandler *habitQueries.ExportHabitsHandler,
) *App {
	return &App{
		CreateHabitHandler:      createHabitHandler,
		RecordCompletionHandler: recordCompletionHandler,
		ChangeFrequencyHandler:  changeFrequencyHandler,
		DeleteHabitHandler:      deleteHabitHandler,
		ListHabitsHandler:       listHabitsHandler,
		GetHabitHandler:         getHabitHandler,
		ExportHabitsHandler:     exportHabitsHandler,
		Metrics:                 observability.NoopMetrics{},
		CurrentUserID:           uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetHealth updates the health registry.
func (a *App) SetHealth(registry *observability.HealthRegistry) {
	a.Health = registry
}

// SetMetrics updates the metrics sink. Nil resets it to a noop sink.
func (a *App) SetMetrics(m observability.Metrics) {
	if m == nil {
		m = observability.NoopMetrics{}
	}
	a.Metrics = m
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
