package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

type weightsSetInput struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`
}

type presetInput struct {
	Name string `json:"name" jsonschema:"required"`
}

func registerWeightTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("weights.show").
		Description("Current scoring weights and the vector learning would produce").
		Handler(func(ctx context.Context, input struct{}) (*queries.WeightsView, error) {
			if ts.app.ShowWeightsHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.ShowWeightsHandler.Handle(ctx)
		})

	srv.Tool("weights.set").
		Description("Set custom weights; values are normalised to sum to 1").
		Handler(ts.setWeights)

	srv.Tool("weights.preset").
		Description("Use the weights of smart, fastest, high_impact or deadline").
		Handler(func(ctx context.Context, input presetInput) (*commands.SetWeightsResult, error) {
			if ts.app.SetWeightsHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.SetWeightsHandler.Handle(ctx, commands.SetWeightsCommand{Preset: input.Name})
		})

	srv.Tool("weights.reset").
		Description("Drop custom weights").
		Handler(func(ctx context.Context, input struct{}) (*commands.SetWeightsResult, error) {
			if ts.app.SetWeightsHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.SetWeightsHandler.Handle(ctx, commands.SetWeightsCommand{Reset: true})
		})

	srv.Tool("weights.learn").
		Description("Adapt the weights from recorded feedback").
		Handler(func(ctx context.Context, input struct{}) (*commands.LearnWeightsResult, error) {
			if ts.app.LearnWeightsHandler == nil {
				return nil, errNotInitialized
			}
			return ts.app.LearnWeightsHandler.Handle(ctx)
		})
}

func (ts *toolset) setWeights(ctx context.Context, input weightsSetInput) (*commands.SetWeightsResult, error) {
	if ts.app.SetWeightsHandler == nil {
		return nil, errNotInitialized
	}
	v := weights.Vector{
		Urgency:    input.Urgency,
		Importance: input.Importance,
		Effort:     input.Effort,
		Dependency: input.Dependency,
	}
	return ts.app.SetWeightsHandler.Handle(ctx, commands.SetWeightsCommand{Weights: &v})
}
