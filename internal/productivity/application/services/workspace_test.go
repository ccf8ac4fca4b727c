package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	tasks    []task.Record
	feedback map[string]feedback.Record
	weights  *weights.Vector
	loadErr  error
	saves    int
}

func (r *memoryRepo) LoadTasks(context.Context) ([]task.Record, error) { return r.tasks, r.loadErr }

func (r *memoryRepo) SaveTasks(_ context.Context, records []task.Record) error {
	r.saves++
	r.tasks = records
	return nil
}

func (r *memoryRepo) LoadFeedback(context.Context) (map[string]feedback.Record, error) {
	return r.feedback, nil
}

func (r *memoryRepo) SaveFeedback(_ context.Context, doc map[string]feedback.Record) error {
	r.saves++
	r.feedback = doc
	return nil
}

func (r *memoryRepo) LoadWeights(context.Context) (*weights.Vector, error) { return r.weights, nil }

func (r *memoryRepo) SaveWeights(_ context.Context, v *weights.Vector) error {
	r.saves++
	r.weights = v
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkspace_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	ws := NewWorkspace(repo, weights.Default(), discardLogger())

	_, err := ws.Tasks.Create(task.Fields{ID: "1", Title: "Fix login bug", Importance: 8})
	require.NoError(t, err)
	_, err = ws.Feedback.Record("1", feedback.KindHelpful)
	require.NoError(t, err)
	ws.Weights.Replace(weights.Equal(), weights.SourceManual)

	require.NoError(t, ws.SaveTasks(ctx))
	require.NoError(t, ws.SaveFeedback(ctx))
	require.NoError(t, ws.SaveWeights(ctx))
	assert.Equal(t, 3, repo.saves)
	assert.Len(t, ws.DrainEvents(), 3)

	reloaded := NewWorkspace(repo, weights.Default(), discardLogger())
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, ws.Tasks.Records(), reloaded.Tasks.Records())
	assert.Equal(t, ws.Feedback.Records(), reloaded.Feedback.Records())
	require.NotNil(t, reloaded.Weights.Custom())
	assertWeights(t, weights.Equal(), *reloaded.Weights.Custom())
	assert.Empty(t, reloaded.DrainEvents())
}

func TestWorkspace_LoadError(t *testing.T) {
	repo := &memoryRepo{loadErr: errors.New("disk gone")}
	ws := NewWorkspace(repo, weights.Default(), discardLogger())

	err := ws.Load(context.Background())

	assert.ErrorContains(t, err, "load tasks")
	assert.Zero(t, ws.Tasks.Len())
}
