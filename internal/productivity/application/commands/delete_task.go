package commands

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// DeleteTaskCommand removes a task. Its feedback record is kept.
type DeleteTaskCommand struct {
	TaskID string
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *DeleteTaskHandler {
	return &DeleteTaskHandler{ws: ws, dispatcher: dispatcher}
}

// Handle executes the DeleteTaskCommand.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	if err := h.ws.Tasks.Delete(cmd.TaskID); err != nil {
		return err
	}
	return commit(ctx, h.ws, h.dispatcher, scopeTasks)
}
