package queries

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// ExportHabitsQuery selects the habits to serialise.
type ExportHabitsQuery struct {
	UserID uuid.UUID
}

// ExportHabitsHandler handles the ExportHabitsQuery.
type ExportHabitsHandler struct {
	habitRepo domain.Repository
}

// NewExportHabitsHandler creates a new ExportHabitsHandler.
func NewExportHabitsHandler(habitRepo domain.Repository) *ExportHabitsHandler {
	return &ExportHabitsHandler{habitRepo: habitRepo}
}

// Handle returns the user's habits as a JSON array of snapshots.
func (h *ExportHabitsHandler) Handle(ctx context.Context, query ExportHabitsQuery) ([]byte, error) {
	habits, err := h.habitRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	return domain.MarshalHabits(habits)
}
