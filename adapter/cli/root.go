package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger

	bootstrap Bootstrap
	cfg       *config.Config
	shutdown  func()
)

// Bootstrap builds the application for one command run. configPath is the
// value of --config and may be empty.
type Bootstrap func(ctx context.Context, configPath string, verbose bool) (*App, *config.Config, func(), error)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// skipBootstrap marks commands that run without a database.
const skipBootstrap = "cadence/skip-bootstrap"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - habit recurrence tracker",
	Long: `Cadence tracks recurring habits and tells you which ones still need
doing today.

Habits repeat daily, weekly, twice a week, or on chosen weekdays. A habit
can be completed at most once per day.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil && bootstrap != nil && cmd.Annotations[skipBootstrap] == "" {
			a, c, closeFn, err := bootstrap(cmd.Context(), cfgFile, verbose)
			if err != nil {
				return err
			}
			app, cfg, shutdown = a, c, closeFn
		}
		if logger == nil {
			logger = slog.Default()
		}

		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := observability.WithCorrelationID(cmd.Context(), info.correlationID.String())
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.InfoContext(ctx, "command start", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.InfoContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if shutdown != nil {
		shutdown()
		shutdown = nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetBootstrap registers how the application is built once flags are parsed.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// GetConfig returns the configuration the bootstrap loaded, or nil.
func GetConfig() *config.Config {
	return cfg
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// Logger returns the CLI logger, or slog.Default when none is set.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
