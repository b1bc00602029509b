package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	habitCommands "github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	habitsDomain "github.com/felixgeelhaar/cadence/internal/habits/domain"
	habitPersistence "github.com/felixgeelhaar/cadence/internal/habits/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	Metrics *observability.PrometheusMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Cache is nil unless REDIS_URL is set and reachable.
	Cache *habitPersistence.RedisCache

	HabitRepo  habitsDomain.Repository
	OutboxRepo outbox.Repository
	UnitOfWork sharedApplication.UnitOfWork

	// Habit command handlers
	CreateHabitHandler      *habitCommands.CreateHabitHandler
	RecordCompletionHandler *habitCommands.RecordCompletionHandler
	ChangeFrequencyHandler  *habitCommands.ChangeFrequencyHandler
	DeleteHabitHandler      *habitCommands.DeleteHabitHandler

	// Habit query handlers
	ListHabitsHandler   *habitQueries.ListHabitsHandler
	GetHabitHandler     *habitQueries.GetHabitHandler
	ExportHabitsHandler *habitQueries.ExportHabitsHandler

	// Set by StartOutboxProcessor.
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	now func() time.Time
}

// Option customises a Container.
type Option func(*Container)

// WithClock sets the clock that decides "today" for commands and queries.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// NewContainer opens the configured database, applies migrations and wires
// the habit handlers. An empty DATABASE_URL selects local SQLite.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", cfg.UserID, err)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		UserID:  userID,
		Metrics: observability.NewPrometheusMetrics(),
		Health:  observability.NewHealthRegistry(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.ParseDriver(cfg.DatabaseDriver, cfg.DatabaseURL),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Debug("connected to database", "driver", c.DBDriver)

	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))

	factory := NewRepositoryFactory(conn)
	if cfg.RedisURL != "" {
		cache, err := habitPersistence.NewRedisCache(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			c.Cache = cache
			factory.WithCache(cache, cfg.HabitCacheTTL, logger)
			c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, cache.Ping))
			logger.Debug("connected to redis")
		case cfg.IsDevelopment():
			logger.Warn("redis not available, habit cache disabled", "error", err)
		default:
			_ = conn.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	if c.HabitRepo, err = factory.HabitRepository(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create habit repository: %w", err)
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create outbox repository: %w", err)
	}
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.CreateHabitHandler = habitCommands.NewCreateHabitHandler(c.HabitRepo, c.OutboxRepo, c.UnitOfWork)
	c.RecordCompletionHandler = habitCommands.NewRecordCompletionHandler(c.HabitRepo, c.OutboxRepo, c.UnitOfWork).WithClock(c.now)
	c.ChangeFrequencyHandler = habitCommands.NewChangeFrequencyHandler(c.HabitRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteHabitHandler = habitCommands.NewDeleteHabitHandler(c.HabitRepo, c.OutboxRepo, c.UnitOfWork)

	c.ListHabitsHandler = habitQueries.NewListHabitsHandler(c.HabitRepo).WithClock(c.now)
	c.GetHabitHandler = habitQueries.NewGetHabitHandler(c.HabitRepo).WithClock(c.now)
	c.ExportHabitsHandler = habitQueries.NewExportHabitsHandler(c.HabitRepo)

	return c, nil
}

// NewPublisher connects to RabbitMQ behind a circuit breaker. Without a
// broker URL, or when the broker is down in development, it returns a noop
// publisher.
func (c *Container) NewPublisher() (eventbus.Publisher, error) {
	if c.Config.RabbitMQURL == "" {
		c.Logger.Info("no RABBITMQ_URL configured, events stay in the outbox log only")
		return eventbus.NewNoopPublisher(c.Logger), nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if c.Config.IsDevelopment() {
			c.Logger.Warn("rabbitmq not available, using noop publisher", "error", err)
			return eventbus.NewNoopPublisher(c.Logger), nil
		}
		return nil, err
	}
	return eventbus.NewBreakerPublisher(publisher, eventbus.DefaultBreakerConfig(), c.Logger), nil
}

// StartOutboxProcessor creates the publisher and starts relaying outbox
// messages.
func (c *Container) StartOutboxProcessor(ctx context.Context) error {
	publisher, err := c.NewPublisher()
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	c.EventPublisher = publisher

	cfg := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		cfg.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		cfg.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		cfg.MaxRetries = c.Config.OutboxMaxRetries
	}
	cfg.RetentionDays = c.Config.OutboxRetentionDays
	if c.Config.OutboxCleanupInterval > 0 {
		cfg.CleanupInterval = c.Config.OutboxCleanupInterval
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, publisher, cfg, c.Logger).WithMetrics(c.Metrics)
	return c.OutboxProcessor.Start(ctx)
}

// Close releases every resource the container opened.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("error closing redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBDriver)
		}
	}
}
