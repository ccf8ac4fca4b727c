package queries

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
)

// GetTaskQuery contains the parameters for getting a single task.
type GetTaskQuery struct {
	TaskID string
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	store *services.TaskStore
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(store *services.TaskStore) *GetTaskHandler {
	return &GetTaskHandler{store: store}
}

// Handle executes the GetTaskQuery.
func (h *GetTaskHandler) Handle(_ context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.store.Get(query.TaskID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(t)
	return &dto, nil
}
