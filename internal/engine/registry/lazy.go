package registry

import (
	"context"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
)

// LazyEngine resolves the engine registered under a mode on its first use, so
// commands that never score do not start plugin processes or dial services.
type LazyEngine struct {
	registry *Registry
	mode     Mode
}

var _ types.ScoringEngine = (*LazyEngine)(nil)

// Lazy returns a scoring engine that defers to r.Get(ctx, mode) on every call.
func (r *Registry) Lazy(mode Mode) *LazyEngine {
	return &LazyEngine{registry: r, mode: mode}
}

// Mode returns the transport this engine resolves to.
func (l *LazyEngine) Mode() Mode { return l.mode }

// Metadata identifies the engine without building it.
func (l *LazyEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:        "priora.scoring." + string(l.mode),
		Name:      "Scoring engine (" + string(l.mode) + ")",
		Version:   "lazy",
		Transport: string(l.mode),
	}
}

// HealthCheck builds the engine if needed and reports its health.
func (l *LazyEngine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	engine, err := l.registry.Get(ctx, l.mode)
	if err != nil {
		return sdk.HealthStatus{Healthy: false, Message: err.Error(), CheckedAt: time.Now()}
	}
	return engine.HealthCheck(ctx)
}

// Shutdown is a no-op; the registry owns the built engine.
func (l *LazyEngine) Shutdown(context.Context) error { return nil }

func (l *LazyEngine) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	engine, err := l.registry.Get(ctx, l.mode)
	if err != nil {
		return nil, err
	}
	return engine.Analyze(ctx, req)
}

func (l *LazyEngine) Suggest(ctx context.Context, req types.AnalyzeRequest) (*types.SuggestResponse, error) {
	engine, err := l.registry.Get(ctx, l.mode)
	if err != nil {
		return nil, err
	}
	return engine.Suggest(ctx, req)
}

func (l *LazyEngine) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResponse, error) {
	engine, err := l.registry.Get(ctx, l.mode)
	if err != nil {
		return nil, err
	}
	return engine.Export(ctx, req)
}

func (l *LazyEngine) Feedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	engine, err := l.registry.Get(ctx, l.mode)
	if err != nil {
		return nil, err
	}
	return engine.Feedback(ctx, req)
}
