// Package mcp holds "priora mcp", which exposes the task list to MCP clients.
package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/priora/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/priora/internal/mcp"
	"github.com/spf13/cobra"
)

var addr string

// Cmd groups the MCP commands.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose tasks, scoring and weights to MCP clients",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start an MCP server over HTTP exposing task, scoring and weight tools,
the task list and dashboard as resources, and planning prompts.

Set PRIORA_MCP_AUTH_TOKEN to a comma-separated list of bearer tokens to
require authentication.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Config == nil {
			return cli.ErrNotInitialized
		}

		cfg := *app.Config
		if addr != "" {
			cfg.MCPAddr = addr
		}

		err := mcpinternal.Serve(cmd.Context(), &cfg, app, app.Logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	Cmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from PRIORA_MCP_ADDR)")
}
