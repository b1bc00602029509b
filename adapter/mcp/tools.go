package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App    *cli.App
	Logger *slog.Logger
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerCoreTools(srv, deps); err != nil {
		return err
	}
	if err := registerHabitTools(srv, deps); err != nil {
		return err
	}

	return nil
}

type healthOutput struct {
	Status observability.HealthStatus                 `json:"status"`
	Checks map[string]observability.HealthCheckResult `json:"checks,omitempty"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Report database and cache connectivity").
		Handler(func(ctx context.Context, _ struct{}) (*healthOutput, error) {
			if app.Health == nil {
				return &healthOutput{Status: observability.HealthStatusHealthy}, nil
			}
			report := app.Health.Check(ctx)
			return &healthOutput{Status: report.Status, Checks: report.Checks}, nil
		})

	return nil
}
