package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	inboxCommands "github.com/felixgeelhaar/priora/internal/inbox/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
)

type taskCreateInput struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title" jsonschema:"required"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Importance     int      `json:"importance,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

type taskUpdateInput struct {
	TaskID         string    `json:"task_id" jsonschema:"required"`
	Title          *string   `json:"title,omitempty"`
	DueDate        *string   `json:"due_date,omitempty"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	Importance     *int      `json:"importance,omitempty"`
	Dependencies   *[]string `json:"dependencies,omitempty"`
}

type taskListInput struct {
	Search     string `json:"search,omitempty"`
	Importance string `json:"importance,omitempty"`
	Effort     string `json:"effort,omitempty"`
	Status     string `json:"status,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	Status string `json:"status" jsonschema:"required"`
}

type addInput struct {
	Text string `json:"text" jsonschema:"required"`
}

func registerTaskTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("task.create").
		Description("Create a new task").
		Handler(ts.createTask)

	srv.Tool("task.add").
		Description("Create a task from a natural-language description such as 'pay rent tomorrow 1h imp 8'").
		Handler(ts.addTask)

	srv.Tool("task.list").
		Description("List tasks with filters").
		Handler(ts.listTasks)

	srv.Tool("task.get").
		Description("Get a task by id").
		Handler(ts.getTask)

	srv.Tool("task.update").
		Description("Update the given fields of a task").
		Handler(ts.updateTask)

	srv.Tool("task.status").
		Description("Move a task to backlog, in-progress, review or done").
		Handler(ts.setStatus)

	srv.Tool("task.delete").
		Description("Delete a task; its feedback is kept").
		Handler(ts.deleteTask)

	srv.Tool("task.seed").
		Description("Add the sample tasks").
		Handler(func(ctx context.Context, input struct{}) (*commands.SeedTasksResult, error) {
			if ts.app.SeedTasksHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.SeedTasksHandler.Handle(ctx)
		})
}

func (ts *toolset) createTask(ctx context.Context, input taskCreateInput) (*commands.CreateTaskResult, error) {
	if ts.app.CreateTaskHandler == nil {
		return nil, errNotInitialized
	}
	return ts.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ID:             input.ID,
		Title:          input.Title,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Importance:     input.Importance,
		Dependencies:   input.Dependencies,
	})
}

func (ts *toolset) addTask(ctx context.Context, input addInput) (*inboxCommands.CaptureResult, error) {
	if ts.app.CaptureHandler == nil {
		return nil, errNotInitialized
	}
	return ts.app.CaptureHandler.Handle(ctx, inboxCommands.CaptureCommand{Text: input.Text})
}

func (ts *toolset) listTasks(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	if ts.app.ListTasksHandler == nil {
		return nil, errNotInitialized
	}
	return ts.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		Search:     input.Search,
		Importance: input.Importance,
		Effort:     input.Effort,
		Status:     input.Status,
		SortBy:     input.SortBy,
		Limit:      input.Limit,
	})
}

func (ts *toolset) getTask(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	if ts.app.GetTaskHandler == nil {
		return nil, errNotInitialized
	}
	if input.TaskID == "" {
		return nil, errNoTaskID
	}
	return ts.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: input.TaskID})
}

func (ts *toolset) updateTask(ctx context.Context, input taskUpdateInput) (*commands.UpdateTaskResult, error) {
	if ts.app.UpdateTaskHandler == nil {
		return nil, errNotInitialized
	}
	if input.TaskID == "" {
		return nil, errNoTaskID
	}
	return ts.app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
		TaskID:         input.TaskID,
		Title:          input.Title,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Importance:     input.Importance,
		Dependencies:   input.Dependencies,
	})
}

func (ts *toolset) setStatus(ctx context.Context, input taskStatusInput) (map[string]any, error) {
	if ts.app.SetStatusHandler == nil {
		return nil, errNotInitialized
	}
	if err := ts.app.SetStatusHandler.Handle(ctx, commands.SetStatusCommand{
		TaskID: input.TaskID,
		Status: input.Status,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"task_id": input.TaskID, "status": input.Status}, nil
}

func (ts *toolset) deleteTask(ctx context.Context, input taskIDInput) (map[string]any, error) {
	if ts.app.DeleteTaskHandler == nil {
		return nil, errNotInitialized
	}
	if err := ts.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: input.TaskID}); err != nil {
		return nil, err
	}
	return map[string]any{"task_id": input.TaskID, "deleted": true}, nil
}
