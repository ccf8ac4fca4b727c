package services

import (
	"slices"
	"testing"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adapterTasks(t *testing.T) map[string]*task.Task {
	t.Helper()
	s := NewTaskStore()
	for _, f := range []task.Fields{
		{ID: "hi", Title: "Board deck", Importance: 9, EstimatedHours: hours(6)},
		{ID: "quick", Title: "Reply to Sam", Importance: 3, EstimatedHours: hours(0.5)},
		{ID: "blocked", Title: "Deploy", Importance: 4, EstimatedHours: hours(2), Dependencies: []string{"hi"}},
		{ID: "unknown", Title: "Someday", Importance: 2},
	} {
		_, err := s.Create(f)
		require.NoError(t, err)
	}
	return s.Index()
}

func TestAdapt_HighImportanceFeedbackRaisesImportance(t *testing.T) {
	tasks := adapterTasks(t)
	records := []feedback.Record{
		{TaskID: "hi", HelpfulCount: 3},
		{TaskID: "quick", HelpfulCount: 1},
	}

	got, agg := Adapt(weights.Equal(), records, tasks)

	assert.Equal(t, Aggregates{HighImportanceHelpful: 3, QuickHelpful: 1, Considered: 2}, agg)
	assert.InDelta(t, 1.0, got.Sum(), 1e-9)
	assert.Greater(t, got.Importance, got.Urgency)
	assert.Greater(t, got.Importance, got.Effort)
	assert.Greater(t, got.Importance, got.Dependency)
	assert.InDelta(t, 0.35/1.10, got.Importance, 1e-9)
	assert.InDelta(t, 0.25/1.10, got.Urgency, 1e-9)
}

func TestAdapt_QuickFeedbackRaisesEffort(t *testing.T) {
	got, agg := Adapt(weights.Equal(), []feedback.Record{{TaskID: "quick", HelpfulCount: 2}}, adapterTasks(t))

	assert.Equal(t, 2, agg.QuickHelpful)
	assert.InDelta(t, 0.37/1.12, got.Effort, 1e-9)
	assert.True(t, got.IsNormalized())
}

func TestAdapt_BlockedFeedbackRaisesDependency(t *testing.T) {
	got, agg := Adapt(weights.Equal(), []feedback.Record{{TaskID: "blocked", HelpfulCount: 1}}, adapterTasks(t))

	assert.Equal(t, 1, agg.BlockedHelpful)
	assert.InDelta(t, 0.33/1.08, got.Dependency, 1e-9)
	assert.True(t, got.IsNormalized())
}

func TestAdapt_UnknownEffortIsNotQuick(t *testing.T) {
	_, agg := Adapt(weights.Equal(), []feedback.Record{{TaskID: "unknown", HelpfulCount: 5}}, adapterTasks(t))

	assert.Zero(t, agg.QuickHelpful)
	assert.Zero(t, agg.HighImportanceHelpful)
}

func TestAdapt_TieAndNoFeedbackOnlyNormalise(t *testing.T) {
	current := weights.Vector{Urgency: 2, Importance: 1, Effort: 1, Dependency: 0}

	got, _ := Adapt(current, nil, adapterTasks(t))

	assert.Equal(t, current.Normalize(), got)
}

func TestAdapt_IgnoresOrphanedRecords(t *testing.T) {
	records := []feedback.Record{{TaskID: "deleted", HelpfulCount: 10}, {TaskID: "quick", HelpfulCount: 1}}

	got, agg := Adapt(weights.Equal(), records, adapterTasks(t))

	assert.Equal(t, 1, agg.Orphaned)
	assert.Equal(t, 1, agg.Considered)
	assert.Greater(t, got.Effort, got.Importance)
}

func TestAdapt_OrderIndependent(t *testing.T) {
	tasks := adapterTasks(t)
	records := []feedback.Record{
		{TaskID: "hi", HelpfulCount: 2},
		{TaskID: "quick", HelpfulCount: 4},
		{TaskID: "blocked", HelpfulCount: 1},
	}
	reversed := slices.Clone(records)
	slices.Reverse(reversed)

	a, aggA := Adapt(weights.Default(), records, tasks)
	b, aggB := Adapt(weights.Default(), reversed, tasks)

	assert.Equal(t, a, b)
	assert.Equal(t, aggA, aggB)
}
