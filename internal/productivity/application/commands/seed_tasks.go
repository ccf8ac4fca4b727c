package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// SeedTasksResult lists the ids of the sample tasks that were added.
type SeedTasksResult struct {
	Created []string
}

// SeedTasksHandler adds the demo task set.
type SeedTasksHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewSeedTasksHandler creates a new SeedTasksHandler.
func NewSeedTasksHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *SeedTasksHandler {
	return &SeedTasksHandler{ws: ws, dispatcher: dispatcher}
}

// SampleTasks returns the demo task set.
func SampleTasks() []task.Fields {
	due := value_objects.NewDate(2025, 11, 30)
	fix, readme := 3.0, 1.0
	return []task.Fields{
		{ID: "1", Title: "Fix login bug", DueDate: &due, EstimatedHours: &fix, Importance: 8},
		{ID: "2", Title: "Write README", EstimatedHours: &readme, Importance: 6, Dependencies: []string{"1"}},
	}
}

// Handle adds every sample task whose id is not taken yet.
func (h *SeedTasksHandler) Handle(ctx context.Context) (*SeedTasksResult, error) {
	result := &SeedTasksResult{Created: []string{}}
	for _, f := range SampleTasks() {
		t, err := h.ws.Tasks.Create(f)
		if errors.Is(err, task.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Created = append(result.Created, t.ID())
	}
	if len(result.Created) == 0 {
		return result, nil
	}
	if err := commit(ctx, h.ws, h.dispatcher, scopeTasks); err != nil {
		return nil, err
	}
	return result, nil
}
