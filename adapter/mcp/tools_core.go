package mcp

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/inbox/services"
	"github.com/felixgeelhaar/priora/pkg/observability"
)

type parseInput struct {
	Text string `json:"text" jsonschema:"required"`
}

func registerCoreTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("cli.health").
		Description("Check the task store and the scoring engine").
		Handler(ts.health)

	srv.Tool("cli.version").
		Description("Report the server version").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{"version": cli.Version, "commit": cli.Commit}, nil
		})

	srv.Tool("text.parse").
		Description("Show the due date, effort and importance recognised in a task description without creating a task").
		Handler(ts.parse)
}

func (ts *toolset) health(ctx context.Context, _ struct{}) (*observability.OverallHealth, error) {
	if ts.app.Health == nil {
		return nil, errNotInitialized
	}
	overall := ts.app.Health.GetOverallHealth(ctx)
	return &overall, nil
}

func (ts *toolset) parse(_ context.Context, input parseInput) (*services.Candidate, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, errEmptyText
	}
	now := ts.app.Now
	if now == nil {
		now = timeNow
	}
	c := services.Extract(input.Text, now())
	return &c, nil
}
