package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

type habitCreateInput struct {
	Name      string   `json:"name" jsonschema:"required"`
	Frequency string   `json:"frequency,omitempty"`
	Days      []string `json:"days,omitempty"`
}

type habitCreateOutput struct {
	HabitID   string `json:"habit_id"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
}

type habitListInput struct {
	Date      string `json:"date,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// habitRefInput names a habit by ID or by name.
type habitRefInput struct {
	Habit string `json:"habit" jsonschema:"required"`
	Date  string `json:"date,omitempty"`
}

type habitCompleteOutput struct {
	HabitID          string        `json:"habit_id"`
	Name             string        `json:"name"`
	Date             domain.Date   `json:"date"`
	CompletionCount  int           `json:"completion_count"`
	CompletionRecord []domain.Date `json:"completion_record"`
	IsDue            bool          `json:"is_due"`
}

type habitFrequencyInput struct {
	Habit     string   `json:"habit" jsonschema:"required"`
	Frequency string   `json:"frequency" jsonschema:"required"`
	Days      []string `json:"days,omitempty"`
}

type habitTools struct {
	app    *cli.App
	logger *slog.Logger
}

func registerHabitTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := &habitTools{app: deps.App, logger: deps.Logger}
	if tools.logger == nil {
		tools.logger = slog.Default()
	}

	srv.Tool("habit.create").
		Description("Create a habit. frequency is daily, weekly, twice_weekly or custom; custom habits need days such as [\"mon\",\"fri\"]").
		Handler(tools.create)

	srv.Tool("habit.list").
		Description("List habits split into due and not due for a date (default today)").
		Handler(tools.list)

	srv.Tool("habit.get").
		Description("Show one habit with its completion history").
		Handler(tools.get)

	srv.Tool("habit.complete").
		Description("Mark a habit completed today or on date").
		Handler(tools.complete)

	srv.Tool("habit.change_frequency").
		Description("Change how often a habit repeats").
		Handler(tools.changeFrequency)

	srv.Tool("habit.delete").
		Description("Delete a habit and its history").
		Handler(tools.delete)

	return nil
}

func (t *habitTools) create(ctx context.Context, input habitCreateInput) (*habitCreateOutput, error) {
	if t.app.CreateHabitHandler == nil {
		return nil, errNoDatabase
	}
	if input.Frequency == "" {
		input.Frequency = "daily"
	}

	return observability.TimeOperation(t.logger, t.app.Metrics, "habit.create", func() (*habitCreateOutput, error) {
		result, err := t.app.CreateHabitHandler.Handle(ctx, commands.CreateHabitCommand{
			UserID:    t.app.CurrentUserID,
			Name:      input.Name,
			Frequency: input.Frequency,
			Days:      input.Days,
		})
		if err != nil {
			return nil, err
		}
		kind := string(result.Frequency.Kind())
		t.app.Metrics.Counter(observability.MetricHabitsCreated, 1, observability.T("frequency", kind))
		return &habitCreateOutput{
			HabitID:   result.HabitID.String(),
			Name:      input.Name,
			Frequency: result.Frequency.String(),
		}, nil
	})
}

func (t *habitTools) list(ctx context.Context, input habitListInput) (*queries.ListHabitsResult, error) {
	if t.app.ListHabitsHandler == nil {
		return nil, errNoDatabase
	}
	on, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	return observability.TimeOperation(t.logger, t.app.Metrics, "habit.list", func() (*queries.ListHabitsResult, error) {
		result, err := t.app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{
			UserID:    t.app.CurrentUserID,
			On:        on,
			Frequency: input.Frequency,
		})
		if err != nil {
			return nil, err
		}
		t.app.Metrics.Gauge(observability.MetricHabitsDue, float64(len(result.Due)))
		return result, nil
	})
}

func (t *habitTools) get(ctx context.Context, input habitRefInput) (*queries.HabitDTO, error) {
	if t.app.GetHabitHandler == nil {
		return nil, errNoDatabase
	}
	on, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	return resolveHabit(ctx, t.app, input.Habit, on)
}

func (t *habitTools) complete(ctx context.Context, input habitRefInput) (*habitCompleteOutput, error) {
	if t.app.RecordCompletionHandler == nil || t.app.GetHabitHandler == nil {
		return nil, errNoDatabase
	}
	on, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	habit, err := resolveHabit(ctx, t.app, input.Habit, on)
	if err != nil {
		return nil, err
	}

	return observability.TimeOperation(t.logger, t.app.Metrics, "habit.complete", func() (*habitCompleteOutput, error) {
		result, err := t.app.RecordCompletionHandler.Handle(ctx, commands.RecordCompletionCommand{
			HabitID: habit.ID,
			UserID:  t.app.CurrentUserID,
			On:      on,
		})
		if err != nil {
			return nil, err
		}
		t.app.Metrics.Counter(observability.MetricHabitCompletions, 1, observability.T("frequency", habit.Frequency))
		return &habitCompleteOutput{
			HabitID:          result.HabitID.String(),
			Name:             result.Name,
			Date:             result.Date,
			CompletionCount:  result.CompletionCount,
			CompletionRecord: result.CompletionRecord,
			IsDue:            result.IsDue,
		}, nil
	})
}

func (t *habitTools) changeFrequency(ctx context.Context, input habitFrequencyInput) (*queries.HabitDTO, error) {
	if t.app.ChangeFrequencyHandler == nil || t.app.GetHabitHandler == nil {
		return nil, errNoDatabase
	}
	habit, err := resolveHabit(ctx, t.app, input.Habit, nil)
	if err != nil {
		return nil, err
	}

	return observability.TimeOperation(t.logger, t.app.Metrics, "habit.change_frequency", func() (*queries.HabitDTO, error) {
		if err := t.app.ChangeFrequencyHandler.Handle(ctx, commands.ChangeFrequencyCommand{
			HabitID:   habit.ID,
			UserID:    t.app.CurrentUserID,
			Frequency: input.Frequency,
			Days:      input.Days,
		}); err != nil {
			return nil, err
		}
		return resolveHabit(ctx, t.app, habit.ID.String(), nil)
	})
}

func (t *habitTools) delete(ctx context.Context, input habitRefInput) (map[string]any, error) {
	if t.app.DeleteHabitHandler == nil || t.app.GetHabitHandler == nil {
		return nil, errNoDatabase
	}
	habit, err := resolveHabit(ctx, t.app, input.Habit, nil)
	if err != nil {
		return nil, err
	}

	return observability.TimeOperation(t.logger, t.app.Metrics, "habit.delete", func() (map[string]any, error) {
		if err := t.app.DeleteHabitHandler.Handle(ctx, commands.DeleteHabitCommand{
			HabitID: habit.ID,
			UserID:  t.app.CurrentUserID,
		}); err != nil {
			return nil, err
		}
		t.app.Metrics.Counter(observability.MetricHabitsDeleted, 1)
		return map[string]any{"habit_id": habit.ID.String(), "name": habit.Name, "deleted": true}, nil
	})
}

var errNoDatabase = errors.New("habit tools require a database connection")
