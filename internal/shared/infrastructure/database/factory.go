package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds database configuration.
type Config struct {
	// Driver selects the backend. Empty or "auto" detects it from URL.
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the database file for local mode. ":memory:" opens a
	// private in-memory database. Defaults to ~/.cadence/cadence.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// ResolvedDriver returns the driver the config selects.
func (c Config) ResolvedDriver() Driver {
	if c.Driver == "" || c.Driver == "auto" {
		return DetectDriver(c.URL)
	}
	return c.Driver
}

type connector func(ctx context.Context, cfg Config) (Connection, error)

var connectors = map[Driver]connector{}

// Register makes a driver available to NewConnection. Driver packages call it
// from init, so importing them for side effects is enough.
func Register(driver Driver, fn func(ctx context.Context, cfg Config) (Connection, error)) {
	connectors[driver] = fn
}

// NewConnection opens a connection for the configured driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.ResolvedDriver()
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	open, ok := connectors[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %s is not linked into this binary", driver)
	}
	if driver == DriverSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = sqlitePathFromURL(cfg.URL)
	}
	return open(ctx, cfg)
}

func sqlitePathFromURL(url string) string {
	switch {
	case url == "":
		return ""
	case strings.HasPrefix(url, "sqlite://"):
		return strings.TrimPrefix(url, "sqlite://")
	default:
		return url
	}
}

// DefaultSQLitePath returns ~/.cadence/cadence.db, or a path relative to the
// working directory when the home directory is unknown.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cadence", "cadence.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
