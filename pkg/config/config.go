// Package config loads cadence settings from the environment, an optional
// .env file and an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultUserID owns habits in single-user local mode.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string

	// Database. An empty DatabaseURL selects local SQLite mode.
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	LocalMode      bool

	// Redis habit cache; disabled when RedisURL is empty.
	RedisURL      string
	HabitCacheTTL time.Duration

	// RabbitMQ; the worker falls back to a noop publisher when empty.
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		UserID:    getEnv("CADENCE_USER_ID", DefaultUserID),

		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("CADENCE_SQLITE_PATH", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		HabitCacheTTL: getDurationEnv("HABIT_CACHE_TTL", 5*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}
	cfg.resolveDatabase()

	return cfg, nil
}

// resolveDatabase derives the driver and local mode from the URL.
func (c *Config) resolveDatabase() {
	if c.DatabaseDriver == "" {
		switch {
		case c.DatabaseURL == "",
			strings.HasPrefix(c.DatabaseURL, "sqlite:"),
			strings.HasPrefix(c.DatabaseURL, "file:"):
			c.DatabaseDriver = "sqlite"
		default:
			c.DatabaseDriver = "postgres"
		}
	}
	c.LocalMode = c.DatabaseDriver == "sqlite"
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// fileConfig mirrors the TOML layout:
//
//	user_id = "..."
//	[log]      level, format
//	[database] driver, url, sqlite_path
//	[cache]    redis_url, ttl
//	[broker]   rabbitmq_url
//	[mcp]      addr, auth_token
type fileConfig struct {
	UserID string `toml:"user_id"`
	Log    struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Database struct {
		Driver     string `toml:"driver"`
		URL        string `toml:"url"`
		SQLitePath string `toml:"sqlite_path"`
	} `toml:"database"`
	Cache struct {
		RedisURL string `toml:"redis_url"`
		TTL      string `toml:"ttl"`
	} `toml:"cache"`
	Broker struct {
		RabbitMQURL string `toml:"rabbitmq_url"`
	} `toml:"broker"`
	MCP struct {
		Addr      string `toml:"addr"`
		AuthToken string `toml:"auth_token"`
	} `toml:"mcp"`
}

// LoadFile overlays the TOML file at path on cfg. Keys absent from the file
// leave cfg untouched. A missing file is an error.
func (c *Config) LoadFile(path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	set := func(dst *string, value string, key ...string) {
		if md.IsDefined(key...) {
			*dst = value
		}
	}
	set(&c.UserID, fc.UserID, "user_id")
	set(&c.LogLevel, fc.Log.Level, "log", "level")
	set(&c.LogFormat, fc.Log.Format, "log", "format")
	set(&c.DatabaseURL, fc.Database.URL, "database", "url")
	set(&c.SQLitePath, fc.Database.SQLitePath, "database", "sqlite_path")
	set(&c.RedisURL, fc.Cache.RedisURL, "cache", "redis_url")
	set(&c.RabbitMQURL, fc.Broker.RabbitMQURL, "broker", "rabbitmq_url")
	set(&c.MCPAddr, fc.MCP.Addr, "mcp", "addr")
	set(&c.MCPAuthToken, fc.MCP.AuthToken, "mcp", "auth_token")

	if md.IsDefined("cache", "ttl") {
		ttl, err := time.ParseDuration(fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("config file %s: cache.ttl: %w", path, err)
		}
		c.HabitCacheTTL = ttl
	}

	if md.IsDefined("database", "driver") {
		c.DatabaseDriver = fc.Database.Driver
	} else if md.IsDefined("database", "url") {
		c.DatabaseDriver = ""
	}
	c.resolveDatabase()
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
