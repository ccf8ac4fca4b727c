package weights

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/priora/adapter/cli"
	internalApp "github.com/felixgeelhaar/priora/internal/app"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{StoreURL: "memory:", ScorerMode: "builtin", ScorerTimeout: 5 * time.Second}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), internalApp.Options{})
	require.NoError(t, err)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() {
		cli.SetApp(nil)
		container.Close()
	})
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestShowCmd_Defaults(t *testing.T) {
	setupTestApp(t)

	out := run(t, showCmd)
	assert.Contains(t, out, "Current weights (default)")
	assert.Contains(t, out, "urgency     0.350")
	assert.Contains(t, out, "Presets: deadline, fastest, high_impact, smart")
	assert.NotContains(t, out, "Learned from")
}

func TestSetCmd_Normalises(t *testing.T) {
	app := setupTestApp(t)
	vector = weights.Vector{Urgency: 2, Importance: 1, Effort: 1}
	defer func() { vector = weights.Vector{} }()

	out := run(t, setCmd)
	assert.Contains(t, out, "urgency     0.500")
	assert.Contains(t, out, "dependency  0.000")

	current := app.Workspace.Weights.Current()
	assert.InDelta(t, 0.5, current.Urgency, 1e-9)
	assert.True(t, current.IsNormalized())
}

func TestSetCmd_RejectsAllZero(t *testing.T) {
	setupTestApp(t)
	vector = weights.Vector{}

	setCmd.SetContext(context.Background())
	err := setCmd.RunE(setCmd, nil)
	assert.ErrorIs(t, err, commands.ErrNoPositiveWeight)
}

func TestPresetAndResetCmd(t *testing.T) {
	app := setupTestApp(t)

	run(t, presetCmd, "deadline")
	assert.NotNil(t, app.Workspace.Weights.Custom())
	assert.InDelta(t, 0.70, app.Workspace.Weights.Current().Urgency, 1e-9)

	presetCmd.SetContext(context.Background())
	err := presetCmd.RunE(presetCmd, []string{"yolo"})
	assert.ErrorIs(t, err, commands.ErrUnknownPreset)

	run(t, resetCmd)
	assert.Nil(t, app.Workspace.Weights.Custom())
	assert.InDelta(t, weights.Default().Urgency, app.Workspace.Weights.Current().Urgency, 1e-9)
}

func TestLearnCmd_ShiftsTowardImportance(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	_, err := app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{ID: "big", Title: "Board deck", Importance: 9})
	require.NoError(t, err)
	for range 2 {
		_, err = app.RecordFeedbackHandler.Handle(ctx, commands.RecordFeedbackCommand{TaskID: "big", Label: "helpful"})
		require.NoError(t, err)
	}

	before := app.Workspace.Weights.Current()
	out := run(t, learnCmd)
	assert.Contains(t, out, "Feedback considered: 1 (orphaned 0)")
	assert.Contains(t, out, "helpful on high importance: 2")

	after := app.Workspace.Weights.Current()
	assert.Greater(t, after.Importance, before.Importance)
	assert.True(t, after.IsNormalized())
}
