package commands

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockStateRepo is a mock implementation of services.StateRepository.
type mockStateRepo struct {
	mock.Mock
}

func (m *mockStateRepo) LoadTasks(ctx context.Context) ([]task.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Record), args.Error(1)
}

func (m *mockStateRepo) SaveTasks(ctx context.Context, records []task.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *mockStateRepo) LoadFeedback(ctx context.Context) (map[string]feedback.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]feedback.Record), args.Error(1)
}

func (m *mockStateRepo) SaveFeedback(ctx context.Context, doc map[string]feedback.Record) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockStateRepo) LoadWeights(ctx context.Context) (*weights.Vector, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*weights.Vector), args.Error(1)
}

func (m *mockStateRepo) SaveWeights(ctx context.Context, v *weights.Vector) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

// mockPublisher is a mock implementation of sharedApplication.EventPublisher.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

// mockScorer is a mock implementation of types.ScoringEngine.
type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{ID: "mock", Name: "Mock", Version: "test", Transport: "inprocess"}
}

func (m *mockScorer) HealthCheck(context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: true}
}

func (m *mockScorer) Shutdown(context.Context) error { return nil }

func (m *mockScorer) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AnalyzeResponse), args.Error(1)
}

func (m *mockScorer) Suggest(ctx context.Context, req types.AnalyzeRequest) (*types.SuggestResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SuggestResponse), args.Error(1)
}

func (m *mockScorer) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExportResponse), args.Error(1)
}

func (m *mockScorer) Feedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	ws         *services.Workspace
	repo       *mockStateRepo
	publisher  *mockPublisher
	dispatcher *sharedApplication.EventDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := new(mockStateRepo)
	publisher := new(mockPublisher)
	return &fixture{
		ws:         services.NewWorkspace(repo, weights.Default(), discardLogger()),
		repo:       repo,
		publisher:  publisher,
		dispatcher: sharedApplication.NewEventDispatcher(publisher, eventbus.Encode, discardLogger()),
	}
}

// seed adds tasks directly to the store and drops their creation events.
func (f *fixture) seed(t *testing.T, fields ...task.Fields) {
	t.Helper()
	for _, fl := range fields {
		_, err := f.ws.Tasks.Create(fl)
		require.NoError(t, err)
	}
	f.ws.DrainEvents()
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func hoursOf(h float64) *float64 { return &h }
