package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateHabitCommand contains the data needed to create a habit.
type CreateHabitCommand struct {
	UserID    uuid.UUID
	Name      string
	Frequency string
	Days      []string // Weekday names, custom frequency only
}

// CreateHabitResult contains the result of creating a habit.
type CreateHabitResult struct {
	HabitID   uuid.UUID
	Frequency domain.Frequency
}

// CreateHabitHandler handles the CreateHabitCommand.
type CreateHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateHabitHandler creates a new CreateHabitHandler.
func NewCreateHabitHandler(habitRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateHabitHandler {
	return &CreateHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateHabitCommand.
func (h *CreateHabitHandler) Handle(ctx context.Context, cmd CreateHabitCommand) (*CreateHabitResult, error) {
	frequency, err := domain.ParseFrequency(cmd.Frequency, cmd.Days)
	if err != nil {
		return nil, err
	}

	habit, err := domain.NewHabit(cmd.UserID, cmd.Name, frequency)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents())
	})
	if err != nil {
		return nil, err
	}
	habit.ClearDomainEvents()

	return &CreateHabitResult{HabitID: habit.ID(), Frequency: habit.Frequency()}, nil
}
