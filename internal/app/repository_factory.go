package app

import (
	"fmt"
	"log/slog"
	"time"

	habitsDomain "github.com/felixgeelhaar/cadence/internal/habits/domain"
	habitsPersistence "github.com/felixgeelhaar/cadence/internal/habits/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates repositories for the connection's driver.
type RepositoryFactory struct {
	conn     database.Connection
	driver   database.Driver
	cache    habitsPersistence.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
		logger: slog.Default(),
	}
}

// WithCache makes HabitRepository wrap the store in a read-through cache.
func (f *RepositoryFactory) WithCache(cache habitsPersistence.Cache, ttl time.Duration, logger *slog.Logger) *RepositoryFactory {
	f.cache = cache
	f.cacheTTL = ttl
	if logger != nil {
		f.logger = logger
	}
	return f
}

// HabitRepository creates a habit repository for the configured driver.
func (f *RepositoryFactory) HabitRepository() (habitsDomain.Repository, error) {
	var repo habitsDomain.Repository
	switch f.driver {
	case database.DriverPostgres:
		repo = habitsPersistence.NewPostgresHabitRepository(f.conn)
	case database.DriverSQLite:
		repo = habitsPersistence.NewSQLiteHabitRepository(f.conn)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}

	if f.cache != nil {
		repo = habitsPersistence.NewCachedHabitRepository(repo, f.cache, f.cacheTTL, f.logger)
	}
	return repo, nil
}

// OutboxRepository creates an outbox repository. Both drivers share the SQL
// implementation.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	if !f.driver.IsValid() {
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	return outbox.NewSQLRepository(f.conn), nil
}

func (f *RepositoryFactory) Driver() database.Driver { return f.driver }

func (f *RepositoryFactory) Connection() database.Connection { return f.conn }
