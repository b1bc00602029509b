package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for habit persistence.
type Repository interface {
	// Save persists a habit (create or update), including its completion record.
	Save(ctx context.Context, habit *Habit) error

	// FindByID returns nil and no error when the habit does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)

	// FindByUserID returns a user's habits in creation order.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Habit, error)

	// Delete removes a habit and its completions.
	Delete(ctx context.Context, id uuid.UUID) error
}
