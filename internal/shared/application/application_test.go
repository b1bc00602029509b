package application

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "tx")

	t.Run("commits after success", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		var got context.Context
		err := WithUnitOfWork(ctx, uow, func(c context.Context) error {
			got = c
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, txCtx, got)
		uow.AssertExpectations(t)
	})

	t.Run("rolls back and returns the callback error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(errors.New("rollback failed"))
		boom := errors.New("boom")

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return boom })

		assert.ErrorIs(t, err, boom)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("begin failure skips the callback", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		beginErr := errors.New("no connection")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		called := false
		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.False(t, called)
	})

	t.Run("surfaces commit failure", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		commitErr := errors.New("disk full")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(commitErr)

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return nil })

		assert.ErrorIs(t, err, commitErr)
	})
}

type stampedEvent struct {
	domain.BaseEvent
}

func TestApplyEventMetadata(t *testing.T) {
	userID := uuid.New()
	meta := NewEventMetadata(userID)

	assert.Equal(t, userID, meta.UserID)
	assert.NotEqual(t, uuid.Nil, meta.CorrelationID)
	assert.NotEqual(t, NewEventMetadata(userID).CorrelationID, meta.CorrelationID)

	first := &stampedEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Habit", "habits.habit.created")}
	second := &stampedEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Habit", "habits.habit.completed")}

	ApplyEventMetadata([]domain.DomainEvent{first, second}, meta)

	assert.Equal(t, meta, first.Metadata())
	assert.Equal(t, meta, second.Metadata())
	assert.NotPanics(t, func() { ApplyEventMetadata(nil, meta) })
}
