package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/cadence/internal/mcp"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the habit tools over MCP (streamable HTTP).

Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		cfg := cli.GetConfig()
		if app == nil || cfg == nil {
			return errors.New("mcp server requires a database connection")
		}
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		err := mcpinternal.Serve(cmd.Context(), cfg, app, cli.Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default MCP_ADDR)")
}
