package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	analyze func(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error)
	calls   int
}

func (f *fakeEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{ID: "fake", Name: "Fake", Version: "0.0.1", Transport: "inprocess"}
}

func (f *fakeEngine) HealthCheck(context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: true, CheckedAt: time.Now()}
}

func (f *fakeEngine) Shutdown(context.Context) error { return nil }

func (f *fakeEngine) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	f.calls++
	return f.analyze(ctx, req)
}

func (f *fakeEngine) Suggest(context.Context, types.AnalyzeRequest) (*types.SuggestResponse, error) {
	return &types.SuggestResponse{Alerts: []string{"ok"}}, nil
}

func (f *fakeEngine) Export(context.Context, types.ExportRequest) (*types.ExportResponse, error) {
	return nil, sdk.ErrUnsupportedFormat
}

func (f *fakeEngine) Feedback(_ context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	return &types.FeedbackResponse{TaskID: req.TaskID}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() ExecutorConfig {
	cfg := DefaultExecutorConfig()
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute
	return cfg
}

func TestExecutor_PassesThrough(t *testing.T) {
	score := 42.0
	engine := &fakeEngine{analyze: func(context.Context, types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
		return &types.AnalyzeResponse{Tasks: []types.ScoredTask{{ID: "1", Score: &score}}}, nil
	}}
	exec := NewExecutor(engine, nil, testLogger(), testConfig())

	resp, err := exec.Analyze(context.Background(), types.AnalyzeRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, 42.0, *resp.Tasks[0].Score)

	suggest, err := exec.Suggest(context.Background(), types.AnalyzeRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, suggest.Alerts)

	fb, err := exec.Feedback(context.Background(), types.FeedbackRequest{TaskID: "1", Label: "helpful"})
	require.NoError(t, err)
	assert.Equal(t, "1", fb.TaskID)

	m := exec.Metrics()
	require.NotNil(t, m)
	assert.Equal(t, int64(3), m.Calls)
	assert.Equal(t, "fake", exec.Metadata().ID)
	assert.True(t, exec.HealthCheck(context.Background()).Healthy)
}

func TestExecutor_CircuitOpens(t *testing.T) {
	engine := &fakeEngine{analyze: func(context.Context, types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
		return nil, sdk.NewEngineError("fake", "analyze", sdk.ErrNetwork)
	}}
	exec := NewExecutor(engine, nil, testLogger(), testConfig())

	for range 2 {
		_, err := exec.Analyze(context.Background(), types.AnalyzeRequest{})
		require.ErrorIs(t, err, sdk.ErrNetwork)
	}
	assert.Equal(t, "open", exec.CircuitBreakerState())

	_, err := exec.Analyze(context.Background(), types.AnalyzeRequest{})
	require.Error(t, err)
	assert.True(t, sdk.IsCircuitOpen(err))
	assert.True(t, sdk.IsContractError(err))
	assert.Equal(t, 2, engine.calls)
	assert.False(t, exec.HealthCheck(context.Background()).Healthy)
	assert.Equal(t, int64(1), exec.Metrics().CircuitOpenCount)

	exec.ResetCircuitBreaker()
	assert.Equal(t, "closed", exec.CircuitBreakerState())
}

func TestExecutor_CallerErrorsDoNotTrip(t *testing.T) {
	exec := NewExecutor(&fakeEngine{}, nil, testLogger(), testConfig())

	for range 5 {
		_, err := exec.Export(context.Background(), types.ExportRequest{Format: "pdf"})
		require.ErrorIs(t, err, sdk.ErrUnsupportedFormat)
	}
	assert.Equal(t, "closed", exec.CircuitBreakerState())
}

func TestExecutor_Timeout(t *testing.T) {
	engine := &fakeEngine{analyze: func(ctx context.Context, _ types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	cfg := testConfig()
	cfg.CallTimeout = 20 * time.Millisecond
	exec := NewExecutor(engine, nil, testLogger(), cfg)

	_, err := exec.Analyze(context.Background(), types.AnalyzeRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExecutor_BreakerDisabled(t *testing.T) {
	engine := &fakeEngine{analyze: func(context.Context, types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
		return nil, sdk.ErrNetwork
	}}
	cfg := testConfig()
	cfg.CircuitBreakerEnabled = false
	exec := NewExecutor(engine, nil, testLogger(), cfg)

	for range 5 {
		_, err := exec.Analyze(context.Background(), types.AnalyzeRequest{})
		require.ErrorIs(t, err, sdk.ErrNetwork)
	}
	assert.Equal(t, "none", exec.CircuitBreakerState())
	assert.Equal(t, 5, engine.calls)
}
