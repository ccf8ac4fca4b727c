package commands

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// SetStatusCommand moves a task between board columns.
type SetStatusCommand struct {
	TaskID string
	Status string
}

// SetStatusHandler handles the SetStatusCommand.
type SetStatusHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewSetStatusHandler creates a new SetStatusHandler.
func NewSetStatusHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *SetStatusHandler {
	return &SetStatusHandler{ws: ws, dispatcher: dispatcher}
}

// Handle executes the SetStatusCommand. Repeating the current status succeeds without changes.
func (h *SetStatusHandler) Handle(ctx context.Context, cmd SetStatusCommand) error {
	if _, err := h.ws.Tasks.SetStatus(cmd.TaskID, cmd.Status); err != nil {
		return err
	}
	return commit(ctx, h.ws, h.dispatcher, scopeTasks)
}
