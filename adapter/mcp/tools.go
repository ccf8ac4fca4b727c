package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/priora/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// toolset holds the tool handlers so they can be exercised without a transport.
type toolset struct {
	app *cli.App
}

var errNotInitialized = errors.New("task store not initialized")

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	ts := &toolset{app: deps.App}
	registerCoreTools(srv, ts)
	registerTaskTools(srv, ts)
	registerScoringTools(srv, ts)
	registerWeightTools(srv, ts)
	return nil
}
