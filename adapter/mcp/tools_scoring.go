package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
)

type strategyInput struct {
	Strategy string `json:"strategy,omitempty"`
}

type exportInput struct {
	Format string `json:"format,omitempty"`
}

type exportOutput struct {
	ContentType string `json:"content_type"`
	Document    string `json:"document"`
}

type feedbackInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	Label  string `json:"label" jsonschema:"required"`
}

func registerScoringTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("tasks.analyze").
		Description("Score every task with the scoring engine and store the scores").
		Handler(ts.analyze)

	srv.Tool("tasks.suggest").
		Description("Top three tasks to work on next, with reasons and alerts").
		Handler(ts.suggest)

	srv.Tool("tasks.export").
		Description("Export tasks as csv, json, yaml, toml or ics").
		Handler(ts.export)

	srv.Tool("tasks.cycles").
		Description("Detect circular dependencies between tasks").
		Handler(func(ctx context.Context, input struct{}) (*queries.CyclesReport, error) {
			if ts.app.DetectCyclesHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.DetectCyclesHandler.Handle(ctx)
		})

	srv.Tool("tasks.dashboard").
		Description("Task counts by status, score band and due date").
		Handler(func(ctx context.Context, input struct{}) (*queries.Dashboard, error) {
			if ts.app.DashboardHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.DashboardHandler.Handle(ctx)
		})

	srv.Tool("feedback.record").
		Description("Record that a suggested task was helpful or done").
		Handler(ts.feedback)
}

func (ts *toolset) strategy(requested string) string {
	if requested != "" {
		return requested
	}
	return ts.app.Strategy()
}

func (ts *toolset) analyze(ctx context.Context, input strategyInput) (*commands.AnalyzeTasksResult, error) {
	if ts.app.AnalyzeTasksHandler == nil {
		return nil, errNotInitialized
	}
	return ts.app.AnalyzeTasksHandler.Handle(ctx, commands.AnalyzeTasksCommand{Strategy: ts.strategy(input.Strategy)})
}

func (ts *toolset) suggest(ctx context.Context, input strategyInput) (*types.SuggestResponse, error) {
	if ts.app.SuggestTasksHandler == nil {
		return nil, errNotInitialized
	}
	return ts.app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{Strategy: ts.strategy(input.Strategy)})
}

func (ts *toolset) export(ctx context.Context, input exportInput) (*exportOutput, error) {
	if ts.app.ExportTasksHandler == nil {
		return nil, errNotInitialized
	}
	doc, err := ts.app.ExportTasksHandler.Handle(ctx, queries.ExportTasksQuery{Format: input.Format})
	if err != nil {
		return nil, err
	}
	return &exportOutput{ContentType: doc.ContentType, Document: string(doc.Data)}, nil
}

func (ts *toolset) feedback(ctx context.Context, input feedbackInput) (*commands.RecordFeedbackResult, error) {
	if ts.app.RecordFeedbackHandler == nil {
		return nil, errNotInitialized
	}
	return ts.app.RecordFeedbackHandler.Handle(ctx, commands.RecordFeedbackCommand{TaskID: input.TaskID, Label: input.Label})
}
