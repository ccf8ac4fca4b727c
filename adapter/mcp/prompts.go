package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common prioritization workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("what_next").
		Description("Decide what to work on next using the scoring engine and give feedback on the result.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "What Next",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me pick my next task. Please:

1. Run tasks.cycles and tell me about any circular dependencies first
2. Run tasks.suggest and read the alerts
3. Present the top suggestion with its reasons in one or two sentences

When I accept a suggestion, call feedback.record with label "helpful".
When I finish a task, call task.status with "done" and feedback.record with label "done".`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("capture_tasks").
		Description("Turn a brain dump into tasks with due dates, effort and importance.").
		Argument("notes", "Free-form notes to turn into tasks", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			notes := args["notes"]
			if notes == "" {
				notes = "[Paste the notes to turn into tasks]"
			}
			return &mcp.PromptResult{
				Description: "Capture Tasks",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Turn these notes into tasks:

%s

For each item write one line such as "renew passport in 3 days 1h imp 7" and
check it with text.parse. Create it with task.add once the recognised fields
look right. Use task.update to add dependencies between the new tasks.`, notes),
						},
					},
				},
			}, nil
		})

	srv.Prompt("tune_weights").
		Description("Review recorded feedback and adjust the scoring weights.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Tune Weights",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Read priora://weights and compare the current and learned vectors.
Explain which factor learning would strengthen and why, based on the aggregates.
Ask me before calling weights.learn, weights.preset or weights.set.`,
						},
					},
				},
			}, nil
		})

	return nil
}
