package queries

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

// WeightsView describes the current weights and what learning would change.
type WeightsView struct {
	Current    weights.Vector      `json:"current"`
	Custom     bool                `json:"custom"`
	Learned    weights.Vector      `json:"learned"`
	Aggregates services.Aggregates `json:"aggregates"`
	Presets    []string            `json:"presets"`
}

// ShowWeightsHandler reports the weight vector without changing it.
type ShowWeightsHandler struct {
	ws *services.Workspace
}

// NewShowWeightsHandler creates a new ShowWeightsHandler.
func NewShowWeightsHandler(ws *services.Workspace) *ShowWeightsHandler {
	return &ShowWeightsHandler{ws: ws}
}

// Handle returns the current vector and a preview of the learned one.
func (h *ShowWeightsHandler) Handle(_ context.Context) (*WeightsView, error) {
	current := h.ws.Weights.Current()
	learned, agg := services.Adapt(current, h.ws.Feedback.Records(), h.ws.Tasks.Index())
	return &WeightsView{
		Current:    current,
		Custom:     h.ws.Weights.Custom() != nil,
		Learned:    learned,
		Aggregates: agg,
		Presets:    weights.Strategies(),
	}, nil
}
