package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FrequencySnapshot is the storage form of a Frequency.
type FrequencySnapshot struct {
	Kind FrequencyKind `json:"kind"`
	Days []string      `json:"days,omitempty"`
}

// Snapshot is the storage form of a Habit.
type Snapshot struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	Name             string            `json:"name"`
	Frequency        FrequencySnapshot `json:"frequency"`
	Completions      int               `json:"completions"`
	CompletionRecord []Date            `json:"completion_record"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Version          int               `json:"version,omitempty"`
}

// EncodeFrequency converts a rule to its storage form.
func EncodeFrequency(f Frequency) FrequencySnapshot {
	fs := FrequencySnapshot{Kind: f.Kind()}
	if c, ok := f.(Custom); ok {
		fs.Days = c.days.Names()
	}
	return fs
}

// DecodeFrequency is the inverse of EncodeFrequency.
func DecodeFrequency(fs FrequencySnapshot) (Frequency, error) {
	return ParseFrequency(string(fs.Kind), fs.Days)
}

// Snapshot captures the habit's persistent state.
func (h *Habit) Snapshot() Snapshot {
	return Snapshot{
		ID:               h.ID(),
		UserID:           h.userID,
		Name:             h.name,
		Frequency:        EncodeFrequency(h.frequency),
		Completions:      h.completionCount,
		CompletionRecord: h.completionRecord.clone(),
		CreatedAt:        h.CreatedAt(),
		UpdatedAt:        h.UpdatedAt(),
		Version:          h.Version(),
	}
}

// FromSnapshot rebuilds a habit, applying the same checks as RehydrateHabit.
func FromSnapshot(s Snapshot) (*Habit, error) {
	frequency, err := DecodeFrequency(s.Frequency)
	if err != nil {
		return nil, fmt.Errorf("habit %s: %w", s.ID, err)
	}
	record := s.CompletionRecord
	if record == nil {
		record = []Date{}
	}
	habit, err := RehydrateHabit(s.ID, s.UserID, s.Name, frequency, s.Completions, record, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("habit %s: %w", s.ID, err)
	}
	habit.SetVersion(s.Version)
	return habit, nil
}

// MarshalHabits encodes habits as an indented JSON array.
func MarshalHabits(habits []*Habit) ([]byte, error) {
	snapshots := make([]Snapshot, 0, len(habits))
	for _, h := range habits {
		snapshots = append(snapshots, h.Snapshot())
	}
	return json.MarshalIndent(snapshots, "", "  ")
}

// UnmarshalHabits decodes a JSON array produced by MarshalHabits.
func UnmarshalHabits(data []byte) ([]*Habit, error) {
	var snapshots []Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("decode habits: %w", err)
	}
	habits := make([]*Habit, 0, len(snapshots))
	for _, s := range snapshots {
		h, err := FromSnapshot(s)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}
