package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// CompletionRecord is the sequence of days a habit was marked done. Order is
// insertion order and carries no meaning for evaluation.
type CompletionRecord []Date

// Contains reports whether d has been recorded.
func (r CompletionRecord) Contains(d Date) bool {
	for _, c := range r {
		if c.Equal(d) {
			return true
		}
	}
	return false
}

func (r CompletionRecord) Len() int { return len(r) }

func (r CompletionRecord) clone() CompletionRecord {
	out := make(CompletionRecord, len(r))
	copy(out, r)
	return out
}

// Habit is a recurring activity with a frequency rule and completion history.
type Habit struct {
	sharedDomain.BaseAggregateRoot
	userID           uuid.UUID
	name             string
	frequency        Frequency
	completionCount  int
	completionRecord CompletionRecord
}

// NewHabit creates a habit with an empty completion record.
func NewHabit(userID uuid.UUID, name string, frequency Frequency) (*Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrHabitEmptyName
	}
	if err := validateFrequency(frequency); err != nil {
		return nil, err
	}

	habit := &Habit{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		frequency:         frequency,
		completionRecord:  CompletionRecord{},
	}

	habit.AddDomainEvent(NewHabitCreated(habit))

	return habit, nil
}

// RehydrateHabit rebuilds a habit from storage, checking the record invariants.
func RehydrateHabit(
	id, userID uuid.UUID,
	name string,
	frequency Frequency,
	completionCount int,
	completionRecord []Date,
	createdAt, updatedAt time.Time,
) (*Habit, error) {
	if err := validateFrequency(frequency); err != nil {
		return nil, err
	}
	if completionCount != len(completionRecord) {
		return nil, ErrCompletionCountMismatch
	}
	seen := make(map[Date]struct{}, len(completionRecord))
	for _, d := range completionRecord {
		if _, ok := seen[d]; ok {
			return nil, ErrDuplicateCompletion
		}
		seen[d] = struct{}{}
	}

	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Habit{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity, 0),
		userID:            userID,
		name:              name,
		frequency:         frequency,
		completionCount:   completionCount,
		completionRecord:  CompletionRecord(completionRecord).clone(),
	}, nil
}

func (h *Habit) UserID() uuid.UUID          { return h.userID }
func (h *Habit) Name() string               { return h.name }
func (h *Habit) Frequency() Frequency       { return h.frequency }
func (h *Habit) CompletionCount() int       { return h.completionCount }
func (h *Habit) IsOwnedBy(u uuid.UUID) bool { return h.userID == u }

// CompletionRecord returns a copy of the completion history.
func (h *Habit) CompletionRecord() CompletionRecord { return h.completionRecord.clone() }

// RecordCompletion returns a new habit with ref appended to the record. The
// receiver is left unchanged.
func (h *Habit) RecordCompletion(ref Date) (*Habit, error) {
	if custom, ok := h.frequency.(Custom); ok && !custom.days.Has(ref.Weekday()) {
		return nil, &NotScheduledError{Allowed: custom.days, Date: ref}
	}
	if h.completionRecord.Contains(ref) {
		return nil, ErrAlreadyCompletedToday
	}

	next := &Habit{
		BaseAggregateRoot: h.BaseAggregateRoot.Copy(),
		userID:            h.userID,
		name:              h.name,
		frequency:         h.frequency,
		completionCount:   h.completionCount + 1,
		completionRecord:  append(h.completionRecord.clone(), ref),
	}
	next.AddDomainEvent(NewHabitCompleted(next, ref))

	return next, nil
}

// ChangeFrequency replaces the recurrence rule. History is kept.
func (h *Habit) ChangeFrequency(frequency Frequency) error {
	if err := validateFrequency(frequency); err != nil {
		return err
	}
	if frequency == h.frequency {
		return nil
	}

	previous := h.frequency
	h.frequency = frequency
	h.Touch()
	h.AddDomainEvent(NewHabitFrequencyChanged(h, previous))

	return nil
}

// MarkDeleted records the deletion so it reaches the outbox.
func (h *Habit) MarkDeleted() {
	h.AddDomainEvent(NewHabitDeleted(h))
}
