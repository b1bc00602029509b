package domain

import (
	"errors"
	"fmt"
)

var (
	ErrHabitEmptyName          = errors.New("habit name cannot be empty")
	ErrInvalidFrequency        = errors.New("invalid habit frequency")
	ErrEmptyCustomDays         = errors.New("custom frequency needs at least one weekday")
	ErrInvalidWeekday          = errors.New("invalid weekday")
	ErrInvalidDate             = errors.New("invalid date, expected YYYY-MM-DD")
	ErrNotScheduledToday       = errors.New("habit is not scheduled for this day")
	ErrAlreadyCompletedToday   = errors.New("habit already completed on this day")
	ErrDuplicateCompletion     = errors.New("completion record contains a date twice")
	ErrCompletionCountMismatch = errors.New("completion count does not match completion record")
)

// NotScheduledError reports a completion attempted on a weekday outside a
// custom habit's schedule.
type NotScheduledError struct {
	Allowed WeekdaySet
	Date    Date
}

func (e *NotScheduledError) Error() string {
	return fmt.Sprintf("%s is a %s, habit is only scheduled on %s", e.Date, weekdayNames[e.Date.Weekday()], e.Allowed)
}

func (e *NotScheduledError) Unwrap() error {
	return ErrNotScheduledToday
}
