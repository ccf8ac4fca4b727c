package commands

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// LearnWeightsResult contains the adapted vector and the aggregates that produced it.
type LearnWeightsResult struct {
	Previous   weights.Vector
	Weights    weights.Vector
	Aggregates services.Aggregates
}

// LearnWeightsHandler adapts the weight vector from recorded feedback.
type LearnWeightsHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewLearnWeightsHandler creates a new LearnWeightsHandler.
func NewLearnWeightsHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *LearnWeightsHandler {
	return &LearnWeightsHandler{ws: ws, dispatcher: dispatcher}
}

// Handle adapts and stores the weights. Each call starts from the current vector.
func (h *LearnWeightsHandler) Handle(ctx context.Context) (*LearnWeightsResult, error) {
	previous := h.ws.Weights.Current()
	next, agg := services.Adapt(previous, h.ws.Feedback.Records(), h.ws.Tasks.Index())
	stored := h.ws.Weights.Replace(next, weights.SourceLearned)

	if err := commit(ctx, h.ws, h.dispatcher, scopeWeights); err != nil {
		return nil, err
	}
	return &LearnWeightsResult{Previous: previous, Weights: stored, Aggregates: agg}, nil
}
