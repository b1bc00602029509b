// Package migrations holds the embedded schema for every supported driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

// Run applies every pending *.up.sql file for the connection's driver, in
// file name order, each in its own transaction.
func Run(ctx context.Context, conn database.Connection) error {
	names, err := Pending(ctx, conn)
	if err != nil {
		return err
	}

	dir := string(conn.Driver())
	for _, name := range names {
		body, err := files.ReadFile(dir + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		err = database.InTx(ctx, conn, func(ctx context.Context, exec database.Executor) error {
			for _, stmt := range splitStatements(string(body)) {
				if _, err := exec.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := exec.Exec(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				version(name), time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// Pending lists migration files not yet recorded in schema_migrations.
func Pending(ctx context.Context, conn database.Connection) ([]string, error) {
	dir := string(conn.Driver())
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %s: %w", dir, err)
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		if _, ok := applied[version(name)]; !ok {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	return pending, nil
}

func appliedVersions(ctx context.Context, conn database.Connection) (map[string]struct{}, error) {
	rows, err := conn.Query(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = struct{}{}
	}
	return applied, rows.Err()
}

func version(name string) string {
	return strings.TrimSuffix(name, ".up.sql")
}

// splitStatements breaks a file on ";" line endings. pgx refuses several
// statements in one prepared Exec.
func splitStatements(sql string) []string {
	var stmts []string
	var current strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(current.String()), ";")))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
