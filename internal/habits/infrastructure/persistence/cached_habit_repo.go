package persistence

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const userHabitsKeyPrefix = "cadence:habits:user:"

// DefaultCacheTTL bounds how stale a cached collection can get.
const DefaultCacheTTL = 5 * time.Minute

// CachedHabitRepository caches each user's habit collection as a JSON
// snapshot. Writes go through to the wrapped repository and evict the owner's
// entry, once immediately and again after the caller's transaction commits.
// Reads inside a transaction bypass the cache. Cache failures are logged and
// never fail the call.
type CachedHabitRepository struct {
	next   domain.Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedHabitRepository(next domain.Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedHabitRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedHabitRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func userHabitsKey(userID uuid.UUID) string {
	return userHabitsKeyPrefix + userID.String()
}

func (r *CachedHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Save(ctx, habit); err != nil {
		return err
	}
	r.evictAroundCommit(ctx, habit.UserID())
	return nil
}

func (r *CachedHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	return r.next.FindByID(ctx, id)
}

func (r *CachedHabitRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	if database.InTransaction(ctx) {
		return r.next.FindByUserID(ctx, userID)
	}
	key := userHabitsKey(userID)

	data, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("habit cache read failed", "key", key, "error", err)
	}
	if ok {
		habits, err := domain.UnmarshalHabits(data)
		if err == nil {
			return habits, nil
		}
		r.logger.Warn("discarding unreadable habit cache entry", "key", key, "error", err)
	}

	habits, err := r.next.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err = domain.MarshalHabits(habits)
	if err != nil {
		r.logger.Warn("habit cache encode failed", "key", key, "error", err)
		return habits, nil
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn("habit cache write failed", "key", key, "error", err)
	}
	return habits, nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	habit, err := r.next.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	if habit != nil {
		r.evictAroundCommit(ctx, habit.UserID())
	}
	return nil
}

func (r *CachedHabitRepository) evictAroundCommit(ctx context.Context, userID uuid.UUID) {
	r.evict(ctx, userID)
	if database.InTransaction(ctx) {
		database.AfterCommit(ctx, func(ctx context.Context) { r.evict(ctx, userID) })
	}
}

func (r *CachedHabitRepository) evict(ctx context.Context, userID uuid.UUID) {
	key := userHabitsKey(userID)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("habit cache eviction failed", "key", key, "error", err)
	}
}
