package queries

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

// SuggestTasksQuery asks the scoring engine what to work on next.
type SuggestTasksQuery struct {
	Strategy string
}

// SuggestTasksHandler handles the SuggestTasksQuery.
type SuggestTasksHandler struct {
	ws     *services.Workspace
	scorer types.ScoringEngine
}

// NewSuggestTasksHandler creates a new SuggestTasksHandler.
func NewSuggestTasksHandler(ws *services.Workspace, scorer types.ScoringEngine) *SuggestTasksHandler {
	return &SuggestTasksHandler{ws: ws, scorer: scorer}
}

// Handle returns the engine's suggestions for the open tasks. Nothing is stored.
func (h *SuggestTasksHandler) Handle(ctx context.Context, query SuggestTasksQuery) (*types.SuggestResponse, error) {
	open := make([]types.TaskInput, 0)
	for _, t := range h.ws.Tasks.All() {
		if t.IsDone() {
			continue
		}
		open = append(open, services.ToTaskInput(t))
	}
	if len(open) == 0 {
		return nil, services.ErrNoTasks
	}

	strategy := strings.TrimSpace(query.Strategy)
	if strategy == "" {
		strategy = weights.StrategySmart
	}
	return h.scorer.Suggest(ctx, types.AnalyzeRequest{
		Tasks:    open,
		Weights:  services.ToWireWeights(h.ws.Weights.Custom()),
		Strategy: strategy,
	})
}
