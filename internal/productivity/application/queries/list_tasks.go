package queries

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
)

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	Search     string // case-insensitive text in title
	Importance string // "high", "mid", "low"
	Effort     string // "quick", "small", "long"
	Status     string // "backlog", "in-progress", "review", "done"
	SortBy     string // "score", "due_date", "importance", "title"
	Limit      int    // 0 = no limit
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	store *services.TaskStore
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(store *services.TaskStore) *ListTasksHandler {
	return &ListTasksHandler{store: store}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(_ context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	filter := task.Filter{
		Text:       query.Search,
		Importance: query.Importance,
		Effort:     query.Effort,
		SortBy:     query.SortBy,
	}
	if s := strings.TrimSpace(query.Status); s != "" && s != "all" {
		status, err := task.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	dtos := make([]TaskDTO, 0)
	for t := range h.store.List(filter) {
		dtos = append(dtos, ToDTO(t))
		if query.Limit > 0 && len(dtos) == query.Limit {
			break
		}
	}
	return dtos, nil
}
