package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RecordCompletionCommand marks a habit done for a day.
type RecordCompletionCommand struct {
	HabitID uuid.UUID
	UserID  uuid.UUID
	On      *domain.Date // nil means today
}

// RecordCompletionResult contains the result of recording a completion.
type RecordCompletionResult struct {
	HabitID          uuid.UUID
	Name             string
	Date             domain.Date
	CompletionCount  int
	CompletionRecord []domain.Date
	IsDue            bool
}

// RecordCompletionHandler handles the RecordCompletionCommand.
type RecordCompletionHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewRecordCompletionHandler creates a new RecordCompletionHandler.
func NewRecordCompletionHandler(habitRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RecordCompletionHandler {
	return &RecordCompletionHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// WithClock overrides how "today" is determined when the command has no date.
func (h *RecordCompletionHandler) WithClock(now func() time.Time) *RecordCompletionHandler {
	h.now = now
	return h
}

// Handle executes the RecordCompletionCommand. Domain errors such as
// domain.ErrAlreadyCompletedToday are returned unwrapped.
func (h *RecordCompletionHandler) Handle(ctx context.Context, cmd RecordCompletionCommand) (*RecordCompletionResult, error) {
	ref := referenceDate(cmd.On, h.now)
	var result *RecordCompletionResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := loadOwned(txCtx, h.habitRepo, cmd.HabitID, cmd.UserID)
		if err != nil {
			return err
		}

		updated, err := domain.RecordCompletion(habit, ref)
		if err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, updated); err != nil {
			return err
		}
		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, updated.DomainEvents()); err != nil {
			return err
		}

		result = &RecordCompletionResult{
			HabitID:          updated.ID(),
			Name:             updated.Name(),
			Date:             ref,
			CompletionCount:  updated.CompletionCount(),
			CompletionRecord: updated.CompletionRecord(),
			IsDue:            domain.IsDue(updated, ref),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
