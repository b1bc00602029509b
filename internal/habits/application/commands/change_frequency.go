package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ChangeFrequencyCommand replaces a habit's recurrence rule.
type ChangeFrequencyCommand struct {
	HabitID   uuid.UUID
	UserID    uuid.UUID
	Frequency string
	Days      []string
}

// ChangeFrequencyHandler handles the ChangeFrequencyCommand.
type ChangeFrequencyHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewChangeFrequencyHandler creates a new ChangeFrequencyHandler.
func NewChangeFrequencyHandler(habitRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangeFrequencyHandler {
	return &ChangeFrequencyHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ChangeFrequencyCommand.
func (h *ChangeFrequencyHandler) Handle(ctx context.Context, cmd ChangeFrequencyCommand) error {
	frequency, err := domain.ParseFrequency(cmd.Frequency, cmd.Days)
	if err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := loadOwned(txCtx, h.habitRepo, cmd.HabitID, cmd.UserID)
		if err != nil {
			return err
		}

		if err := habit.ChangeFrequency(frequency); err != nil {
			return err
		}
		if len(habit.DomainEvents()) == 0 {
			return nil
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents())
	})
}
