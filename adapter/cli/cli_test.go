package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	internalApp "github.com/felixgeelhaar/priora/internal/app"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func setupTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:        "test",
		StoreURL:      "memory:",
		ScorerMode:    "builtin",
		ScorerTimeout: 5 * time.Second,
		Strategy:      "smart",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	container, err := internalApp.NewContainer(context.Background(), cfg, logger, internalApp.Options{Now: fixedNow})
	require.NoError(t, err)

	a := NewApp(container)
	a.Now = fixedNow
	SetApp(a)
	t.Cleanup(func() {
		SetApp(nil)
		container.Close()
	})
	return a
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func seed(t *testing.T, a *App) {
	t.Helper()
	_, err := a.SeedTasksHandler.Handle(context.Background())
	require.NoError(t, err)
}

func TestAddCmd_CreatesTaskFromText(t *testing.T) {
	a := setupTestApp(t)

	out, err := run(t, addCmd, "Renew", "passport", "in", "3", "days", "2h", "imp", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Task created:")
	assert.Contains(t, out, "due:        2025-03-13")

	tasks, err := a.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Renew passport in 3 days 2h imp 9", tasks[0].Title)
	assert.Equal(t, 9, tasks[0].Importance)
	require.NotNil(t, tasks[0].EstimatedHours)
	assert.InDelta(t, 2.0, *tasks[0].EstimatedHours, 1e-9)
}

func TestAddCmd_AudioFallsBackToText(t *testing.T) {
	setupTestApp(t)
	path := filepath.Join(t.TempDir(), "note.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o600))
	addAudioPath = path
	defer func() { addAudioPath = "" }()

	out, err := run(t, addCmd, "Call", "the", "dentist", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "due:        2025-03-10")
}

func TestAddCmd_EmptyInput(t *testing.T) {
	setupTestApp(t)
	_, err := run(t, addCmd)
	assert.Error(t, err)
}

func TestParseCmd_ReportsAmbiguity(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, parseCmd, "ship", "today", "or", "tomorrow")
	require.NoError(t, err)
	assert.Contains(t, out, "due:        2025-03-10")
	assert.Contains(t, out, "warning: more than one date phrase matched")

	tasks, err := GetApp().ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{})
	require.NoError(t, err)
	assert.Empty(t, tasks, "parse never creates a task")
}

func TestAnalyzeCmd_ScoresTasks(t *testing.T) {
	a := setupTestApp(t)
	seed(t, a)

	out, err := run(t, analyzeCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Scored 2 tasks (strategy smart)")
	assert.Contains(t, out, "Fix login bug")

	dto, err := a.GetTaskHandler.Handle(context.Background(), queries.GetTaskQuery{TaskID: "1"})
	require.NoError(t, err)
	assert.NotNil(t, dto.Score)
}

func TestSuggestCmd(t *testing.T) {
	a := setupTestApp(t)
	seed(t, a)

	out, err := run(t, suggestCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "1. ")
	assert.Contains(t, out, "why:")
}

func TestSuggestCmd_NoTasks(t *testing.T) {
	setupTestApp(t)
	_, err := run(t, suggestCmd)
	assert.Error(t, err)
}

func TestExportCmd(t *testing.T) {
	a := setupTestApp(t)
	seed(t, a)
	defer func() { exportFormat, exportOutput = queries.DefaultExportFormat, "" }()

	exportFormat = "csv"
	out, err := run(t, exportCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "id,title,due_date,estimated_hours,importance,score")
	assert.Contains(t, out, "Fix login bug")

	exportFormat = "json"
	exportOutput = filepath.Join(t.TempDir(), "tasks.json")
	out, err = run(t, exportCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestDashboardCmd(t *testing.T) {
	a := setupTestApp(t)
	seed(t, a)

	out, err := run(t, dashboardCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks: 2")
	assert.Contains(t, out, "With dependencies: 1")

	dashboardJSON = true
	defer func() { dashboardJSON = false }()
	out, err = run(t, dashboardCmd)
	require.NoError(t, err)
	var d queries.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 2, d.Total)
}

func TestCyclesCmd(t *testing.T) {
	a := setupTestApp(t)
	ctx := context.Background()

	out, err := run(t, cyclesCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No dependency cycles.")

	_, err = a.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{ID: "a", Title: "A", Dependencies: []string{"b"}})
	require.NoError(t, err)
	_, err = a.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{ID: "b", Title: "B", Dependencies: []string{"a", "ghost"}})
	require.NoError(t, err)

	out, err = run(t, cyclesCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "cycle: ")
	assert.Contains(t, out, "b depends on unknown ghost")
}

func TestFeedbackCmd(t *testing.T) {
	a := setupTestApp(t)
	seed(t, a)

	out, err := run(t, feedbackCmd, "1", "helpful")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback recorded for 1: helpful 1, done 0")
	assert.NotContains(t, out, "warning:")

	_, err = run(t, feedbackCmd, "1", "meh")
	assert.Error(t, err)

	_, err = run(t, feedbackCmd, "missing", "done")
	assert.Error(t, err)
}

func TestHealthCmd(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, healthCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "store    healthy")
	assert.Contains(t, out, "overall  healthy")
}

func TestWatchCmd_RejectsUnwatchableStore(t *testing.T) {
	setupTestApp(t)
	_, err := run(t, watchCmd)
	assert.ErrorContains(t, err, "cannot be watched")
}

func TestEventsTailCmd_RequiresBroker(t *testing.T) {
	setupTestApp(t)
	_, err := run(t, eventsTailCmd)
	assert.ErrorContains(t, err, "RabbitMQ")
}

func TestEventPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewEventPrinter(&out)
	assert.Equal(t, []string{"priora.#"}, p.EventTypes())

	err := p.Handle(context.Background(), &eventbus.ConsumedEvent{
		AggregateID: "t1",
		RoutingKey:  "priora.task.created",
		OccurredAt:  fixedNow(),
		Payload:     json.RawMessage(`{"title":"x"}`),
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "09:00:00 priora.task.created")
	assert.Contains(t, out.String(), `t1 {"title":"x"}`)
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Contains(t, out.String(), "priora dev")
	assert.Contains(t, out.String(), "go:     go1.")

	out.Reset()
	versionJSON = true
	t.Cleanup(func() { versionJSON = false })
	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	var info map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "none", info["commit"])
}
