package feedback_test

import (
	"testing"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RecordAccumulates(t *testing.T) {
	l := feedback.NewLedger()

	_, err := l.Record("t1", feedback.KindHelpful)
	require.NoError(t, err)
	_, err = l.Record("t1", feedback.KindHelpful)
	require.NoError(t, err)
	rec, err := l.Record("t1", feedback.KindDone)
	require.NoError(t, err)

	assert.Equal(t, feedback.Record{TaskID: "t1", HelpfulCount: 2, DoneCount: 1}, rec)
	got, ok := l.Get("t1")
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Len(t, l.PendingEvents(), 3)
}

func TestLedger_RecordRejectsBadInput(t *testing.T) {
	l := feedback.NewLedger()

	_, err := l.Record("t1", feedback.Kind("meh"))
	assert.ErrorIs(t, err, feedback.ErrInvalidKind)

	_, err = l.Record("  ", feedback.KindHelpful)
	assert.ErrorIs(t, err, feedback.ErrEmptyTaskID)

	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.PendingEvents())
}

func TestParseKind(t *testing.T) {
	k, err := feedback.ParseKind(" Helpful ")
	require.NoError(t, err)
	assert.Equal(t, feedback.KindHelpful, k)

	_, err = feedback.ParseKind("like")
	assert.ErrorIs(t, err, feedback.ErrInvalidKind)
}

func TestLedger_RecordsSorted(t *testing.T) {
	l := feedback.NewLedger()
	for _, id := range []string{"c", "a", "b"} {
		_, err := l.Record(id, feedback.KindHelpful)
		require.NoError(t, err)
	}

	var ids []string
	for _, rec := range l.Records() {
		ids = append(ids, rec.TaskID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestLedger_SnapshotRestore(t *testing.T) {
	l := feedback.NewLedger()
	_, _ = l.Record("t1", feedback.KindHelpful)
	_, _ = l.Record("t2", feedback.KindDone)

	restored := feedback.NewLedger()
	restored.Restore(l.Snapshot())

	assert.Equal(t, l.Records(), restored.Records())
	assert.Empty(t, restored.PendingEvents())
}

func TestLedger_RestoreClampsNegativeCounters(t *testing.T) {
	l := feedback.NewLedger()
	l.Restore(map[string]feedback.Record{"t1": {HelpfulCount: -3, DoneCount: 2}, "": {HelpfulCount: 1}})

	rec, ok := l.Get("t1")
	require.True(t, ok)
	assert.Equal(t, 0, rec.HelpfulCount)
	assert.Equal(t, 2, rec.DoneCount)
	assert.Equal(t, 1, l.Len())
}
