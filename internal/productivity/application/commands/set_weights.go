package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

var (
	ErrUnknownPreset    = errors.New("unknown weight preset")
	ErrNoWeightsChange  = errors.New("one of weights, preset or reset is required")
	ErrNoPositiveWeight = errors.New("at least one weight must be positive")
)

// SetWeightsCommand replaces the custom weight vector.
// Exactly one of Weights, Preset or Reset is used, checked in that order.
type SetWeightsCommand struct {
	Weights *weights.Vector
	Preset  string
	Reset   bool
}

// SetWeightsResult contains the stored vector.
type SetWeightsResult struct {
	Weights weights.Vector
	Custom  bool
}

// SetWeightsHandler handles the SetWeightsCommand.
type SetWeightsHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
}

// NewSetWeightsHandler creates a new SetWeightsHandler.
func NewSetWeightsHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher) *SetWeightsHandler {
	return &SetWeightsHandler{ws: ws, dispatcher: dispatcher}
}

// Handle executes the SetWeightsCommand.
func (h *SetWeightsHandler) Handle(ctx context.Context, cmd SetWeightsCommand) (*SetWeightsResult, error) {
	switch {
	case cmd.Weights != nil:
		if !hasPositive(*cmd.Weights) {
			return nil, ErrNoPositiveWeight
		}
		h.ws.Weights.Replace(*cmd.Weights, weights.SourceManual)
	case strings.TrimSpace(cmd.Preset) != "":
		v, ok := weights.Preset(cmd.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, cmd.Preset, strings.Join(weights.Strategies(), ", "))
		}
		h.ws.Weights.Replace(v, weights.SourcePreset)
	case cmd.Reset:
		h.ws.Weights.Clear(weights.Default())
	default:
		return nil, ErrNoWeightsChange
	}

	if err := commit(ctx, h.ws, h.dispatcher, scopeWeights); err != nil {
		return nil, err
	}
	return &SetWeightsResult{
		Weights: h.ws.Weights.Current(),
		Custom:  h.ws.Weights.Custom() != nil,
	}, nil
}

func hasPositive(v weights.Vector) bool {
	for _, f := range []float64{v.Urgency, v.Importance, v.Effort, v.Dependency} {
		if f > 0 && !math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
