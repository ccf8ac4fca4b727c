package commands

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// AnalyzeTasksCommand requests scores for every task.
type AnalyzeTasksCommand struct {
	Strategy string
}

// AnalyzeTasksResult summarises a merged scoring response.
type AnalyzeTasksResult struct {
	Sequence    uint64
	Strategy    string
	Scored      []types.ScoredTask
	Applied     int
	Unmatched   int
	Cycles      [][]string
	LocalCycles [][]string
	CyclesAgree bool
	InputErrors []types.InputError
}

// AnalyzeTasksHandler sends the task list to the scoring engine and merges the answer.
type AnalyzeTasksHandler struct {
	ws          *services.Workspace
	coordinator *services.ScoringCoordinator
	dispatcher  *sharedApplication.EventDispatcher
}

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler.
func NewAnalyzeTasksHandler(ws *services.Workspace, coordinator *services.ScoringCoordinator, dispatcher *sharedApplication.EventDispatcher) *AnalyzeTasksHandler {
	return &AnalyzeTasksHandler{ws: ws, coordinator: coordinator, dispatcher: dispatcher}
}

// Handle executes the AnalyzeTasksCommand and waits for the outcome.
// Network or contract errors leave the store and persisted state untouched.
func (h *AnalyzeTasksHandler) Handle(ctx context.Context, cmd AnalyzeTasksCommand) (*AnalyzeTasksResult, error) {
	ticket, err := h.coordinator.Submit(ctx, cmd.Strategy)
	if err != nil {
		return nil, err
	}
	out, err := ticket.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if err := commit(ctx, h.ws, h.dispatcher, scopeTasks); err != nil {
		return nil, err
	}

	return &AnalyzeTasksResult{
		Sequence:    out.Sequence,
		Strategy:    out.Strategy,
		Scored:      out.Response.Tasks,
		Applied:     out.Applied,
		Unmatched:   out.Unmatched,
		Cycles:      out.Response.Cycles,
		LocalCycles: out.LocalCycles,
		CyclesAgree: out.CyclesAgree,
		InputErrors: out.Response.InputErrors,
	}, nil
}
