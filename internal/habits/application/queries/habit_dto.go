package queries

import (
	"errors"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// ErrHabitNotFound is returned when a habit is not found.
var ErrHabitNotFound = errors.New("habit not found")

// HabitDTO is a data transfer object for habits, evaluated against one date.
type HabitDTO struct {
	ID               uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	Frequency        string        `json:"frequency"`
	FrequencyLabel   string        `json:"frequency_label"`
	Days             []string      `json:"days,omitempty"`
	CompletionCount  int           `json:"completion_count"`
	CompletionRecord []domain.Date `json:"completion_record"`
	IsDue            bool          `json:"is_due"`
	CompletedOnDate  bool          `json:"completed_on_date"`
	CreatedAt        time.Time     `json:"created_at"`
}

func toHabitDTO(h *domain.Habit, ref domain.Date) HabitDTO {
	fs := domain.EncodeFrequency(h.Frequency())
	record := h.CompletionRecord()
	return HabitDTO{
		ID:               h.ID(),
		Name:             h.Name(),
		Frequency:        string(fs.Kind),
		FrequencyLabel:   h.Frequency().String(),
		Days:             fs.Days,
		CompletionCount:  h.CompletionCount(),
		CompletionRecord: record,
		IsDue:            domain.IsDue(h, ref),
		CompletedOnDate:  record.Contains(ref),
		CreatedAt:        h.CreatedAt(),
	}
}

func toHabitDTOs(habits []*domain.Habit, ref domain.Date) []HabitDTO {
	dtos := make([]HabitDTO, 0, len(habits))
	for _, h := range habits {
		dtos = append(dtos, toHabitDTO(h, ref))
	}
	return dtos
}

func referenceDate(on *domain.Date, now func() time.Time) domain.Date {
	if on != nil {
		return *on
	}
	return domain.DateOf(now())
}
