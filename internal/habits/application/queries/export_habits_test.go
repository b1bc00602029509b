package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExportHabitsHandler_Handle(t *testing.T) {
	userID := uuid.New()
	days, err := domain.NewCustomFrequency(time.Tuesday, time.Friday)
	require.NoError(t, err)
	habits := []*domain.Habit{
		createTestHabit(userID, "Read", domain.Daily{}, domain.NewDate(2024, time.June, 3)),
		createTestHabit(userID, "Gym", days),
	}

	repo := new(mockHabitRepo)
	repo.On("FindByUserID", mock.Anything, userID).Return(habits, nil)

	data, err := NewExportHabitsHandler(repo).Handle(context.Background(), ExportHabitsQuery{UserID: userID})
	require.NoError(t, err)

	decoded, err := domain.UnmarshalHabits(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, habits[0].CompletionRecord(), decoded[0].CompletionRecord())
	assert.Equal(t, domain.Frequency(days), decoded[1].Frequency())
}
