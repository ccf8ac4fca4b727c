package commands

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// UpdateTaskCommand contains the fields to change. Nil fields are left as they are.
// An empty DueDate unschedules the task; a negative EstimatedHours clears the estimate.
type UpdateTaskCommand struct {
	TaskID         string
	Title          *string
	DueDate        *string
	EstimatedHours *float64
	Importance     *int
	Dependencies   *[]string
}

// UpdateTaskResult contains the result of updating a task.
type UpdateTaskResult struct {
	TaskID   string
	Warnings []string
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *UpdateTaskHandler {
	return &UpdateTaskHandler{ws: ws, dispatcher: dispatcher}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*UpdateTaskResult, error) {
	patch := task.Patch{
		Title:          cmd.Title,
		Importance:     cmd.Importance,
		Dependencies:   cmd.Dependencies,
		EstimatedHours: cmd.EstimatedHours,
	}

	var warnings []string
	if cmd.DueDate != nil {
		if strings.TrimSpace(*cmd.DueDate) == "" {
			patch.ClearDueDate = true
		} else if due, warning := parseDueDate(*cmd.DueDate); warning != "" {
			warnings = append(warnings, warning)
		} else {
			patch.DueDate = due
		}
	}
	if cmd.EstimatedHours != nil && *cmd.EstimatedHours < 0 {
		patch.EstimatedHours = nil
		patch.ClearEstimate = true
	}

	t, err := h.ws.Tasks.Update(cmd.TaskID, patch)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return &UpdateTaskResult{TaskID: t.ID(), Warnings: warnings}, nil
	}
	if err := commit(ctx, h.ws, h.dispatcher, scopeTasks); err != nil {
		return nil, err
	}

	return &UpdateTaskResult{TaskID: t.ID(), Warnings: warnings}, nil
}
