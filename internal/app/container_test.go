package app

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/registry"
	inboxCommands "github.com/felixgeelhaar/priora/internal/inbox/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/felixgeelhaar/priora/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(storeURL string) *config.Config {
	return &config.Config{
		AppEnv:        "test",
		StoreURL:      storeURL,
		ScorerMode:    "builtin",
		ScorerTimeout: 5 * time.Second,
		Strategy:      "smart",
	}
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func newTestContainer(t *testing.T, storeURL string) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), testConfig(storeURL), nil, Options{Now: fixedNow})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_WiresHandlers(t *testing.T) {
	c := newTestContainer(t, "memory:")

	assert.Equal(t, registry.ModeBuiltin, c.ScorerMode)
	assert.NotNil(t, c.EventBus, "no broker configured selects the in-process bus")
	assert.NotNil(t, c.CreateTaskHandler)
	assert.NotNil(t, c.CaptureHandler)
	assert.NotNil(t, c.AnalyzeTasksHandler)
	assert.NotNil(t, c.DashboardHandler)
	assert.Equal(t, 0, c.Workspace.Tasks.Len())
}

func TestNewContainer_RejectsUnknownScorerMode(t *testing.T) {
	cfg := testConfig("memory:")
	cfg.ScorerMode = "carrier-pigeon"

	_, err := NewContainer(context.Background(), cfg, nil, Options{})
	require.Error(t, err)
}

func TestContainer_CreateAnalyzeAndReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c := newTestContainer(t, dir)
	_, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{ID: "a", Title: "Write report", Importance: 8, DueDate: "2025-03-11"})
	require.NoError(t, err)
	_, err = c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{ID: "b", Title: "Tidy desk", Importance: 2, Dependencies: []string{"a"}})
	require.NoError(t, err)

	result, err := c.AnalyzeTasksHandler.Handle(ctx, commands.AnalyzeTasksCommand{Strategy: "smart"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Zero(t, result.Unmatched)

	reopened := newTestContainer(t, dir)
	tasks, err := reopened.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, dto := range tasks {
		assert.NotNil(t, dto.Score, "scores are persisted with the task list")
	}
}

func TestContainer_CaptureUsesContainerClock(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, "memory:")

	res, err := c.CaptureHandler.Handle(ctx, inboxCommands.CaptureCommand{Text: "call the bank tomorrow 1h imp 7"})
	require.NoError(t, err)

	dto, err := c.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: res.TaskID})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", dto.DueDate)
	assert.Equal(t, 7, dto.Importance)
}

func TestContainer_EventsReachInProcessConsumers(t *testing.T) {
	ctx := observability.WithCorrelationID(context.Background(), uuid.NewString())
	c := newTestContainer(t, "memory:")

	_, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{Title: "Ship it", Importance: 5})
	require.NoError(t, err)

	assert.Positive(t, c.Metrics.GetCounter(observability.MetricEventsConsumed, observability.T("routing_key", "priora.task.created")))
}

func TestContainer_Health(t *testing.T) {
	c := newTestContainer(t, "memory:")

	health := c.Health.GetOverallHealth(context.Background())
	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
	assert.Contains(t, health.Checks, "store")
	assert.Contains(t, health.Checks, "scorer")
}

func TestEventLogger_SubscribesToEverything(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	l := NewEventLogger(nil, metrics)

	assert.Equal(t, []string{"priora.#"}, l.EventTypes())
}

var _ eventbus.EventConsumer = (*EventLogger)(nil)
