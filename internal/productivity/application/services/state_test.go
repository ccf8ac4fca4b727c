package services

import (
	"testing"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWeights(t *testing.T, want, got weights.Vector, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.Urgency, got.Urgency, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Importance, got.Importance, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Effort, got.Effort, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Dependency, got.Dependency, 1e-9, msgAndArgs...)
}

func TestWeightHolder(t *testing.T) {
	h := NewWeightHolder(weights.Default())

	assertWeights(t, weights.Default(), h.Current())
	assert.Nil(t, h.Custom())

	stored := h.Replace(weights.Vector{Urgency: 1, Importance: 1, Effort: 2, Dependency: 0}, weights.SourceManual)
	assert.True(t, stored.IsNormalized())
	require.NotNil(t, h.Custom())
	assert.Equal(t, stored, *h.Custom())

	events := h.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, weights.RoutingKeyReplaced, events[0].RoutingKey())

	h.Clear(weights.Default())
	assert.Nil(t, h.Custom())
	assertWeights(t, weights.Default(), h.Current())
	assert.Len(t, h.DrainEvents(), 1)
}

func TestWeightHolder_Restore(t *testing.T) {
	h := NewWeightHolder(weights.Default())

	h.Restore(&weights.Vector{Urgency: 1, Importance: 1, Effort: 1, Dependency: 1})
	require.NotNil(t, h.Custom())
	assertWeights(t, weights.Equal(), *h.Custom())

	h.Restore(nil)
	assert.Nil(t, h.Custom())
	assert.Empty(t, h.DrainEvents())
}

func TestFeedbackBook(t *testing.T) {
	b := NewFeedbackBook()

	_, err := b.Record("1", feedback.KindHelpful)
	require.NoError(t, err)
	rec, err := b.Record("1", feedback.KindHelpful)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.HelpfulCount)

	_, err = b.Record("2", feedback.KindDone)
	require.NoError(t, err)

	_, err = b.Record("", feedback.KindDone)
	assert.ErrorIs(t, err, feedback.ErrEmptyTaskID)

	got, ok := b.Get("2")
	require.True(t, ok)
	assert.Equal(t, 1, got.DoneCount)
	assert.Len(t, b.Records(), 2)
	assert.Len(t, b.DrainEvents(), 3)
	assert.Empty(t, b.DrainEvents())

	restored := NewFeedbackBook()
	restored.Restore(b.Snapshot())
	assert.Equal(t, b.Records(), restored.Records())
}
