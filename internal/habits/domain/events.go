package domain

import (
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Habit"

// Routing keys for habit events.
const (
	RoutingKeyCreated          = "habits.habit.created"
	RoutingKeyCompleted        = "habits.habit.completed"
	RoutingKeyFrequencyChanged = "habits.habit.frequency_changed"
	RoutingKeyDeleted          = "habits.habit.deleted"
)

// HabitCreated is emitted when a habit is created.
type HabitCreated struct {
	sharedDomain.BaseEvent
	HabitID   uuid.UUID `json:"habit_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"`
	Days      []string  `json:"days,omitempty"`
}

// NewHabitCreated creates a HabitCreated event.
func NewHabitCreated(h *Habit) *HabitCreated {
	fs := EncodeFrequency(h.Frequency())
	return &HabitCreated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), aggregateType, RoutingKeyCreated),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
		Name:      h.Name(),
		Frequency: string(fs.Kind),
		Days:      fs.Days,
	}
}

// HabitCompleted is emitted when a completion is recorded.
type HabitCompleted struct {
	sharedDomain.BaseEvent
	HabitID         uuid.UUID `json:"habit_id"`
	UserID          uuid.UUID `json:"user_id"`
	CompletedOn     Date      `json:"completed_on"`
	CompletionCount int       `json:"completion_count"`
}

// NewHabitCompleted creates a HabitCompleted event.
func NewHabitCompleted(h *Habit, on Date) *HabitCompleted {
	return &HabitCompleted{
		BaseEvent:       sharedDomain.NewBaseEvent(h.ID(), aggregateType, RoutingKeyCompleted),
		HabitID:         h.ID(),
		UserID:          h.UserID(),
		CompletedOn:     on,
		CompletionCount: h.CompletionCount(),
	}
}

// HabitFrequencyChanged is emitted when the recurrence rule changes.
type HabitFrequencyChanged struct {
	sharedDomain.BaseEvent
	HabitID      uuid.UUID `json:"habit_id"`
	UserID       uuid.UUID `json:"user_id"`
	OldFrequency string    `json:"old_frequency"`
	NewFrequency string    `json:"new_frequency"`
	Days         []string  `json:"days,omitempty"`
}

// NewHabitFrequencyChanged creates a HabitFrequencyChanged event.
func NewHabitFrequencyChanged(h *Habit, previous Frequency) *HabitFrequencyChanged {
	fs := EncodeFrequency(h.Frequency())
	return &HabitFrequencyChanged{
		BaseEvent:    sharedDomain.NewBaseEvent(h.ID(), aggregateType, RoutingKeyFrequencyChanged),
		HabitID:      h.ID(),
		UserID:       h.UserID(),
		OldFrequency: string(previous.Kind()),
		NewFrequency: string(fs.Kind),
		Days:         fs.Days,
	}
}

// HabitDeleted is emitted when a habit is removed.
type HabitDeleted struct {
	sharedDomain.BaseEvent
	HabitID         uuid.UUID `json:"habit_id"`
	UserID          uuid.UUID `json:"user_id"`
	CompletionCount int       `json:"completion_count"`
}

// NewHabitDeleted creates a HabitDeleted event.
func NewHabitDeleted(h *Habit) *HabitDeleted {
	return &HabitDeleted{
		BaseEvent:       sharedDomain.NewBaseEvent(h.ID(), aggregateType, RoutingKeyDeleted),
		HabitID:         h.ID(),
		UserID:          h.UserID(),
		CompletionCount: h.CompletionCount(),
	}
}
