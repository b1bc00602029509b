package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteHabitCommand removes a habit and its history.
type DeleteHabitCommand struct {
	HabitID uuid.UUID
	UserID  uuid.UUID
}

// DeleteHabitHandler handles the DeleteHabitCommand.
type DeleteHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteHabitHandler creates a new DeleteHabitHandler.
func NewDeleteHabitHandler(habitRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteHabitHandler {
	return &DeleteHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the DeleteHabitCommand.
func (h *DeleteHabitHandler) Handle(ctx context.Context, cmd DeleteHabitCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := loadOwned(txCtx, h.habitRepo, cmd.HabitID, cmd.UserID)
		if err != nil {
			return err
		}

		habit.MarkDeleted()

		if err := h.habitRepo.Delete(txCtx, habit.ID()); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents())
	})
}
