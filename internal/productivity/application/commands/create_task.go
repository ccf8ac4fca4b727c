package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	ID             string
	Title          string
	DueDate        string
	EstimatedHours *float64
	Importance     int
	Dependencies   []string
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID   string
	Warnings []string
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *CreateTaskHandler {
	return &CreateTaskHandler{ws: ws, dispatcher: dispatcher}
}

// Handle executes the CreateTaskCommand.
// A malformed due date leaves the task unscheduled and is reported as a warning.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	fields := task.Fields{
		ID:             cmd.ID,
		Title:          cmd.Title,
		EstimatedHours: cmd.EstimatedHours,
		Importance:     cmd.Importance,
		Dependencies:   cmd.Dependencies,
	}

	var warnings []string
	if due, warning := parseDueDate(cmd.DueDate); warning != "" {
		warnings = append(warnings, warning)
	} else {
		fields.DueDate = due
	}

	t, err := h.ws.Tasks.Create(fields)
	if err != nil {
		return nil, err
	}
	if err := commit(ctx, h.ws, h.dispatcher, scopeTasks); err != nil {
		return nil, err
	}

	return &CreateTaskResult{TaskID: t.ID(), Warnings: warnings}, nil
}

func parseDueDate(raw string) (*value_objects.Date, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	d, err := value_objects.ParseDate(raw)
	if err != nil {
		return nil, fmt.Sprintf("ignoring due date %q: %v", raw, err)
	}
	return &d, ""
}
