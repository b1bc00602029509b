package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/adapter/cli/habit"
	"github.com/felixgeelhaar/cadence/adapter/cli/mcp"
	"github.com/felixgeelhaar/cadence/internal/app"
	mcpinternal "github.com/felixgeelhaar/cadence/internal/mcp"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli.SetBootstrap(bootstrap)

	// Register commands
	cli.AddCommand(habit.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}

// bootstrap loads configuration once flags are parsed and wires the
// container into the CLI.
func bootstrap(ctx context.Context, configPath string, verbose bool) (*cli.App, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return nil, nil, nil, err
		}
	}

	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, "cadence")
	logCfg.ServiceVersion = cli.Version
	if verbose {
		logCfg.Level = observability.LogLevelDebug
	}
	logCfg.Output = os.Stderr
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return mcpinternal.NewCLIApp(container, container.UserID), cfg, container.Close, nil
}
