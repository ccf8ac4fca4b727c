package services

import (
	"slices"
	"testing"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(h float64) *float64 { return &h }

func score(s float64) *float64 { return &s }

func ids(seq func(func(*task.Task) bool)) []string {
	var out []string
	for t := range seq {
		out = append(out, t.ID())
	}
	return out
}

func seededStore(t *testing.T) *TaskStore {
	t.Helper()
	s := NewTaskStore()
	due := value_objects.NewDate(2025, 11, 30)
	_, err := s.Create(task.Fields{ID: "1", Title: "Fix login bug", DueDate: &due, EstimatedHours: hours(3), Importance: 8})
	require.NoError(t, err)
	_, err = s.Create(task.Fields{ID: "2", Title: "Write README", EstimatedHours: hours(1), Importance: 6, Dependencies: []string{"1"}})
	require.NoError(t, err)
	_, err = s.Create(task.Fields{ID: "3", Title: "Plan offsite", Importance: 2})
	require.NoError(t, err)
	s.DrainEvents()
	return s
}

func TestTaskStore_Create(t *testing.T) {
	s := NewTaskStore()

	created, err := s.Create(task.Fields{Title: "  Ship release  "})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID())
	assert.Equal(t, "Ship release", created.Title())
	assert.Equal(t, 5, created.Importance().Int())
	assert.Equal(t, task.StatusBacklog, created.Status())
	assert.Empty(t, created.Dependencies())
	assert.Equal(t, 1, s.Len())

	events := s.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, task.RoutingKeyCreated, events[0].RoutingKey())
	assert.Empty(t, s.DrainEvents())
}

func TestTaskStore_CreateRejectsInvalidInput(t *testing.T) {
	s := seededStore(t)

	_, err := s.Create(task.Fields{Title: "   "})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	_, err = s.Create(task.Fields{ID: "1", Title: "Duplicate"})
	assert.ErrorIs(t, err, task.ErrDuplicateID)

	assert.Equal(t, 3, s.Len())
}

func TestTaskStore_ReturnsCopies(t *testing.T) {
	s := seededStore(t)

	got, err := s.Get("1")
	require.NoError(t, err)
	require.NoError(t, got.SetTitle("changed outside"))

	again, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Fix login bug", again.Title())
}

func TestTaskStore_Update(t *testing.T) {
	s := seededStore(t)
	title := "Fix SSO login bug"
	imp := 15

	updated, err := s.Update("1", task.Patch{Title: &title, Importance: &imp, ClearDueDate: true})
	require.NoError(t, err)

	assert.Equal(t, title, updated.Title())
	assert.Equal(t, 10, updated.Importance().Int())
	assert.Nil(t, updated.DueDate())
	require.NotNil(t, updated.EstimatedHours())
	assert.Equal(t, 3.0, *updated.EstimatedHours())

	_, err = s.Update("missing", task.Patch{Title: &title})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskStore_SetStatus(t *testing.T) {
	s := seededStore(t)

	t.Run("done is idempotent", func(t *testing.T) {
		first, err := s.SetStatus("1", "done")
		require.NoError(t, err)
		assert.Equal(t, task.StatusDone, first.Status())

		second, err := s.SetStatus("1", "done")
		require.NoError(t, err)
		assert.Equal(t, task.StatusDone, second.Status())

		events := s.DrainEvents()
		assert.Len(t, events, 1)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := s.SetStatus("2", "blocked")
		assert.ErrorIs(t, err, task.ErrInvalidStatus)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.SetStatus("missing", "review")
		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}

func TestTaskStore_ApplyScoreUpdate(t *testing.T) {
	t.Run("matches by id", func(t *testing.T) {
		s := seededStore(t)

		ok := s.ApplyScoreUpdate("2", "", 71.5, []string{"Quick win"})
		require.True(t, ok)

		got, _ := s.Get("2")
		require.NotNil(t, got.Score())
		assert.Equal(t, 71.5, *got.Score())
		assert.Equal(t, []string{"Quick win"}, got.Explanation())
	})

	t.Run("falls back to exact title", func(t *testing.T) {
		s := seededStore(t)

		ok := s.ApplyScoreUpdate("remote-42", "Write README", 60, nil)
		require.True(t, ok)

		got, _ := s.Get("2")
		require.NotNil(t, got.Score())
		assert.Equal(t, 60.0, *got.Score())
	})

	t.Run("no match leaves store unchanged", func(t *testing.T) {
		s := seededStore(t)
		before := s.Records()

		ok := s.ApplyScoreUpdate("remote-42", "write readme", 60, nil)

		assert.False(t, ok)
		assert.Equal(t, before, s.Records())
		assert.Empty(t, s.DrainEvents())
	})

	t.Run("duplicate titles take the first match", func(t *testing.T) {
		s := NewTaskStore()
		_, _ = s.Create(task.Fields{ID: "a", Title: "Review"})
		_, _ = s.Create(task.Fields{ID: "b", Title: "Review"})

		require.True(t, s.ApplyScoreUpdate("", "Review", 10, nil))

		a, _ := s.Get("a")
		b, _ := s.Get("b")
		assert.NotNil(t, a.Score())
		assert.Nil(t, b.Score())
	})
}

func TestTaskStore_MergeScores(t *testing.T) {
	s := seededStore(t)

	applied := s.MergeScores([]types.ScoredTask{
		{ID: "1", Score: score(80)},
		{Title: "Plan offsite", Score: score(12)},
		{ID: "ghost", Title: "Ghost", Score: score(99)},
	})

	assert.Equal(t, 2, applied)
	one, _ := s.Get("1")
	three, _ := s.Get("3")
	assert.Equal(t, 80.0, *one.Score())
	assert.Equal(t, 12.0, *three.Score())
	assert.Len(t, s.DrainEvents(), 2)
}

func TestTaskStore_List(t *testing.T) {
	s := seededStore(t)

	tests := []struct {
		name   string
		filter task.Filter
		want   []string
	}{
		{name: "insertion order", filter: task.Filter{}, want: []string{"1", "2", "3"}},
		{name: "text", filter: task.Filter{Text: "LOGIN"}, want: []string{"1"}},
		{name: "high importance", filter: task.Filter{Importance: "high"}, want: []string{"1"}},
		{name: "mid importance", filter: task.Filter{Importance: "mid"}, want: []string{"2"}},
		{name: "low importance", filter: task.Filter{Importance: "low"}, want: []string{"3"}},
		{name: "quick effort", filter: task.Filter{Effort: "quick"}, want: []string{"2"}},
		{name: "small effort", filter: task.Filter{Effort: "small"}, want: []string{"1", "2"}},
		{name: "long effort excludes unknown", filter: task.Filter{Effort: "long"}, want: nil},
		{name: "sort by importance", filter: task.Filter{SortBy: task.SortByImportance}, want: []string{"1", "2", "3"}},
		{name: "sort by title", filter: task.Filter{SortBy: task.SortByTitle}, want: []string{"1", "3", "2"}},
		{name: "sort by due date", filter: task.Filter{SortBy: task.SortByDueDate}, want: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.List(tt.filter)))
		})
	}
}

func TestTaskStore_ListIsRestartable(t *testing.T) {
	s := seededStore(t)
	seq := s.List(task.Filter{})

	first := ids(seq)
	second := ids(seq)
	assert.Equal(t, first, second)

	var stopped []string
	for tsk := range seq {
		stopped = append(stopped, tsk.ID())
		break
	}
	assert.Equal(t, []string{"1"}, stopped)
}

func TestTaskStore_Delete(t *testing.T) {
	s := seededStore(t)

	require.NoError(t, s.Delete("2"))

	assert.Equal(t, []string{"1", "3"}, ids(s.List(task.Filter{})))
	_, err := s.Get("2")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
	assert.ErrorIs(t, s.Delete("2"), task.ErrTaskNotFound)

	events := s.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, task.RoutingKeyDeleted, events[0].RoutingKey())
}

func TestTaskStore_Restore(t *testing.T) {
	s := seededStore(t)
	records := s.Records()
	records = append(records, task.Record{ID: "4", Title: ""}, task.Record{ID: "1", Title: "Again"})

	restored := NewTaskStore()
	skipped := restored.Restore(records)

	assert.Equal(t, 2, skipped)
	assert.Equal(t, []string{"1", "2", "3"}, ids(restored.List(task.Filter{})))
	assert.Empty(t, restored.DrainEvents())

	index := restored.Index()
	assert.True(t, slices.Equal([]string{"1"}, index["2"].Dependencies()))
}
