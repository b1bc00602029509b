package commands

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrNotOwner      = errors.New("user does not own this habit")
)

// loadOwned finds a habit and checks it belongs to userID.
func loadOwned(ctx context.Context, repo domain.Repository, habitID, userID uuid.UUID) (*domain.Habit, error) {
	habit, err := repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, ErrHabitNotFound
	}
	if !habit.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return habit, nil
}

// saveEvents stamps events with metadata and writes them to the outbox.
func saveEvents(ctx context.Context, repo outbox.Repository, userID uuid.UUID, events []sharedDomain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return repo.SaveBatch(ctx, msgs)
}

func referenceDate(on *domain.Date, now func() time.Time) domain.Date {
	if on != nil {
		return *on
	}
	return domain.DateOf(now())
}
