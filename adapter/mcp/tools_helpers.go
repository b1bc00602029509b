package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
)

// parseDate returns nil for an empty value, meaning today.
func parseDate(value string) (*domain.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// resolveHabit looks a habit up by UUID, falling back to a name match.
func resolveHabit(ctx context.Context, app *cli.App, ref string, on *domain.Date) (*queries.HabitDTO, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("habit is required")
	}

	query := queries.GetHabitQuery{UserID: app.CurrentUserID, On: on}
	if id, err := uuid.Parse(ref); err == nil {
		query.HabitID = id
	} else {
		query.Name = ref
	}

	dto, err := app.GetHabitHandler.Handle(ctx, query)
	if err != nil {
		if errors.Is(err, queries.ErrHabitNotFound) {
			return nil, fmt.Errorf("habit %q: %w", ref, err)
		}
		return nil, err
	}
	return dto, nil
}
