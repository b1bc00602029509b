package queries

import (
	"context"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// GetHabitQuery looks a habit up by ID, or by name when HabitID is nil.
type GetHabitQuery struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
	Name    string
	On      *domain.Date
}

// GetHabitHandler handles the GetHabitQuery.
type GetHabitHandler struct {
	habitRepo domain.Repository
	now       func() time.Time
}

// NewGetHabitHandler creates a new GetHabitHandler.
func NewGetHabitHandler(habitRepo domain.Repository) *GetHabitHandler {
	return &GetHabitHandler{habitRepo: habitRepo, now: time.Now}
}

// WithClock overrides how "today" is determined when the query has no date.
func (h *GetHabitHandler) WithClock(now func() time.Time) *GetHabitHandler {
	h.now = now
	return h
}

// Handle executes the GetHabitQuery. Habits owned by another user are
// reported as not found.
func (h *GetHabitHandler) Handle(ctx context.Context, query GetHabitQuery) (*HabitDTO, error) {
	habit, err := h.find(ctx, query)
	if err != nil {
		return nil, err
	}
	if habit == nil || !habit.IsOwnedBy(query.UserID) {
		return nil, ErrHabitNotFound
	}

	dto := toHabitDTO(habit, referenceDate(query.On, h.now))
	return &dto, nil
}

func (h *GetHabitHandler) find(ctx context.Context, query GetHabitQuery) (*domain.Habit, error) {
	if query.HabitID != uuid.Nil {
		return h.habitRepo.FindByID(ctx, query.HabitID)
	}

	name := strings.TrimSpace(query.Name)
	if name == "" {
		return nil, ErrHabitNotFound
	}
	habits, err := h.habitRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	for _, habit := range habits {
		if strings.EqualFold(habit.Name(), name) {
			return habit, nil
		}
	}
	return nil, nil
}
