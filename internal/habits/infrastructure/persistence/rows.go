package persistence

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// habitRow is a habits table row decoded into Go types.
type habitRow struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Frequency       string
	Days            []string
	CompletionCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

func (r habitRow) toDomain(record []domain.Date) (*domain.Habit, error) {
	frequency, err := domain.DecodeFrequency(domain.FrequencySnapshot{
		Kind: domain.FrequencyKind(r.Frequency),
		Days: r.Days,
	})
	if err != nil {
		return nil, err
	}
	habit, err := domain.RehydrateHabit(
		r.ID,
		r.UserID,
		r.Name,
		frequency,
		r.CompletionCount,
		record,
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	habit.SetVersion(r.Version)
	return habit, nil
}

// concurrentModification reports a save that matched no row at the expected
// version.
func concurrentModification(habit *domain.Habit) error {
	return fmt.Errorf("%w: habit %s was saved at version %d by another writer",
		sharedDomain.ErrConcurrentModification, habit.ID(), habit.Version())
}

// frequencyColumns splits a rule into its kind and day-name columns.
func frequencyColumns(f domain.Frequency) (string, []string) {
	fs := domain.EncodeFrequency(f)
	days := fs.Days
	if days == nil {
		days = []string{}
	}
	return string(fs.Kind), days
}
