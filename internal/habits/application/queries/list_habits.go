package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// ListHabitsQuery contains the parameters for listing habits.
type ListHabitsQuery struct {
	UserID    uuid.UUID
	On        *domain.Date // nil means today
	Frequency string       // Optional kind filter: "daily", "weekly", "twice_weekly", "custom"
}

// ListHabitsResult splits a user's habits by whether they need action on Date.
type ListHabitsResult struct {
	Date   domain.Date `json:"date"`
	Due    []HabitDTO  `json:"due"`
	NotDue []HabitDTO  `json:"not_due"`
}

// ListHabitsHandler handles the ListHabitsQuery.
type ListHabitsHandler struct {
	habitRepo domain.Repository
	now       func() time.Time
}

// NewListHabitsHandler creates a new ListHabitsHandler.
func NewListHabitsHandler(habitRepo domain.Repository) *ListHabitsHandler {
	return &ListHabitsHandler{habitRepo: habitRepo, now: time.Now}
}

// WithClock overrides how "today" is determined when the query has no date.
func (h *ListHabitsHandler) WithClock(now func() time.Time) *ListHabitsHandler {
	h.now = now
	return h
}

// Handle executes the ListHabitsQuery.
func (h *ListHabitsHandler) Handle(ctx context.Context, query ListHabitsQuery) (*ListHabitsResult, error) {
	habits, err := h.habitRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	if query.Frequency != "" {
		kind, err := domain.ParseFrequencyKind(query.Frequency)
		if err != nil {
			return nil, err
		}
		habits = filterByKind(habits, kind)
	}

	ref := referenceDate(query.On, h.now)
	due, notDue := domain.Partition(habits, ref)

	return &ListHabitsResult{
		Date:   ref,
		Due:    toHabitDTOs(due, ref),
		NotDue: toHabitDTOs(notDue, ref),
	}, nil
}

func filterByKind(habits []*domain.Habit, kind domain.FrequencyKind) []*domain.Habit {
	filtered := make([]*domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Frequency().Kind() == kind {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
