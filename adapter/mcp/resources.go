package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
)

// RegisterResources registers MCP resources that expose task data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	ts := &toolset{app: deps.App}

	srv.Resource("priora://tasks").
		Name("Tasks").
		Description("All tasks, highest score first").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return ts.jsonResource(uri, func() (any, error) {
				return ts.listTasks(ctx, taskListInput{Status: "all", SortBy: "score"})
			})
		})

	srv.Resource("priora://tasks/open").
		Name("Open Tasks").
		Description("Tasks that are not done").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return ts.jsonResource(uri, func() (any, error) {
				all, err := ts.listTasks(ctx, taskListInput{SortBy: "score"})
				if err != nil {
					return nil, err
				}
				open := make([]queries.TaskDTO, 0, len(all))
				for _, t := range all {
					if t.Status != "done" {
						open = append(open, t)
					}
				}
				return open, nil
			})
		})

	srv.Resource("priora://weights").
		Name("Weights").
		Description("Current scoring weights").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return ts.jsonResource(uri, func() (any, error) {
				if ts.app.ShowWeightsHandler == nil {
					return nil, errNotInitialized
				}
				return ts.app.ShowWeightsHandler.Handle(ctx)
			})
		})

	srv.Resource("priora://dashboard").
		Name("Dashboard").
		Description("Task counts by status, score band and due date").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return ts.jsonResource(uri, func() (any, error) {
				if ts.app.DashboardHandler == nil {
					return nil, errNotInitialized
				}
				return ts.app.DashboardHandler.Handle(ctx)
			})
		})

	return nil
}

func (ts *toolset) jsonResource(uri string, load func() (any, error)) (*mcp.ResourceContent, error) {
	v, err := load()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
