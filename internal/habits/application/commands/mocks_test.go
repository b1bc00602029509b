package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockHabitRepo is a mock implementation of domain.Repository.
type mockHabitRepo struct {
	mock.Mock
}

func (m *mockHabitRepo) Save(ctx context.Context, habit *domain.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *mockHabitRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockHabitOutboxRepo is a mock implementation of outbox.Repository.
type mockHabitOutboxRepo struct {
	mock.Mock
}

func (m *mockHabitOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockHabitOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockHabitOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockHabitOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockHabitOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, err, nextRetryAt)
	return args.Error(0)
}

func (m *mockHabitOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockHabitOutboxRepo) GetFailed(ctx context.Context, maxRetries, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockHabitOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockHabitUnitOfWork is a mock implementation of UnitOfWork.
type mockHabitUnitOfWork struct {
	mock.Mock
}

func (m *mockHabitUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockHabitUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockHabitUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type handlerMocks struct {
	repo   *mockHabitRepo
	outbox *mockHabitOutboxRepo
	uow    *mockHabitUnitOfWork
	ctx    context.Context
	txCtx  context.Context
}

func newHandlerMocks() handlerMocks {
	ctx := context.Background()
	return handlerMocks{
		repo:   new(mockHabitRepo),
		outbox: new(mockHabitOutboxRepo),
		uow:    new(mockHabitUnitOfWork),
		ctx:    ctx,
		txCtx:  context.WithValue(ctx, "tx", "transaction"),
	}
}

func (m handlerMocks) assertExpectations(t mock.TestingT) {
	m.repo.AssertExpectations(t)
	m.outbox.AssertExpectations(t)
	m.uow.AssertExpectations(t)
}

func rehydrate(userID uuid.UUID, name string, f domain.Frequency, record ...domain.Date) *domain.Habit {
	now := time.Now().UTC()
	h, err := domain.RehydrateHabit(uuid.New(), userID, name, f, len(record), record, now, now)
	if err != nil {
		panic(err)
	}
	return h
}
