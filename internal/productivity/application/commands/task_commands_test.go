package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("creates task with defaults", func(t *testing.T) {
		f := newFixture(t)
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.AnythingOfType("[]task.Record")).Return(nil)
		f.publisher.On("Publish", ctx, task.RoutingKeyCreated, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, CreateTaskCommand{Title: "Test task"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.TaskID)
		assert.Empty(t, result.Warnings)

		created, err := f.ws.Tasks.Get(result.TaskID)
		require.NoError(t, err)
		assert.Equal(t, 5, created.Importance().Int())
		assert.Equal(t, task.StatusBacklog, created.Status())
		f.assertExpectations(t)
	})

	t.Run("creates task with all fields", func(t *testing.T) {
		f := newFixture(t)
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.AnythingOfType("[]task.Record")).Return(nil)
		f.publisher.On("Publish", ctx, task.RoutingKeyCreated, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, CreateTaskCommand{
			ID:             "42",
			Title:          "Ship release",
			DueDate:        "2025-12-01",
			EstimatedHours: hoursOf(2.5),
			Importance:     15,
			Dependencies:   []string{"42", "7", "7"},
		})

		require.NoError(t, err)
		assert.Equal(t, "42", result.TaskID)

		created, err := f.ws.Tasks.Get("42")
		require.NoError(t, err)
		assert.Equal(t, "2025-12-01", created.DueDate().String())
		assert.Equal(t, 2.5, *created.EstimatedHours())
		assert.Equal(t, 10, created.Importance().Int())
		assert.Equal(t, []string{"7"}, created.Dependencies())
		f.assertExpectations(t)
	})

	t.Run("malformed due date becomes a warning", func(t *testing.T) {
		f := newFixture(t)
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, task.RoutingKeyCreated, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, CreateTaskCommand{Title: "Someday", DueDate: "next week"})

		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		created, _ := f.ws.Tasks.Get(result.TaskID)
		assert.Nil(t, created.DueDate())
	})

	t.Run("fails with empty title", func(t *testing.T) {
		f := newFixture(t)
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		result, err := handler.Handle(ctx, CreateTaskCommand{Title: "  "})

		assert.ErrorIs(t, err, task.ErrEmptyTitle)
		assert.Nil(t, result)
		f.repo.AssertNotCalled(t, "SaveTasks", mock.Anything, mock.Anything)
	})

	t.Run("fails with duplicate id", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, task.Fields{ID: "1", Title: "Existing"})
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		_, err := handler.Handle(ctx, CreateTaskCommand{ID: "1", Title: "Again"})

		assert.ErrorIs(t, err, task.ErrDuplicateID)
	})

	t.Run("returns save errors", func(t *testing.T) {
		f := newFixture(t)
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := handler.Handle(ctx, CreateTaskCommand{Title: "Test"})

		assert.ErrorContains(t, err, "disk full")
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the command", func(t *testing.T) {
		f := newFixture(t)
		handler := NewCreateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, task.RoutingKeyCreated, mock.Anything).Return(errors.New("broker down"))

		_, err := handler.Handle(ctx, CreateTaskCommand{Title: "Test"})

		assert.NoError(t, err)
	})
}

func TestUpdateTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only set fields", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, task.Fields{ID: "1", Title: "Fix login bug", EstimatedHours: hoursOf(3), Importance: 8})
		handler := NewUpdateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, task.RoutingKeyUpdated, mock.Anything).Return(nil)

		imp := 4
		due := "2025-12-24"
		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: "1", Importance: &imp, DueDate: &due})
		require.NoError(t, err)

		got, _ := f.ws.Tasks.Get("1")
		assert.Equal(t, "Fix login bug", got.Title())
		assert.Equal(t, 4, got.Importance().Int())
		assert.Equal(t, "2025-12-24", got.DueDate().String())
		assert.Equal(t, 3.0, *got.EstimatedHours())
		f.assertExpectations(t)
	})

	t.Run("clears due date and estimate", func(t *testing.T) {
		f := newFixture(t)
		due := value_objects.NewDate(2025, 11, 30)
		f.seed(t, task.Fields{ID: "1", Title: "Fix login bug", DueDate: &due, EstimatedHours: hoursOf(3)})
		handler := NewUpdateTaskHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, task.RoutingKeyUpdated, mock.Anything).Return(nil)

		empty := ""
		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: "1", DueDate: &empty, EstimatedHours: hoursOf(-1)})
		require.NoError(t, err)

		got, _ := f.ws.Tasks.Get("1")
		assert.Nil(t, got.DueDate())
		assert.Nil(t, got.EstimatedHours())
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newFixture(t)
		handler := NewUpdateTaskHandler(f.ws, f.dispatcher)
		title := "x"

		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: "missing", Title: &title})

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}

func TestSetStatusHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("done twice is idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, task.Fields{ID: "1", Title: "Fix login bug"})
		handler := NewSetStatusHandler(f.ws, f.dispatcher)

		f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil).Twice()
		f.publisher.On("Publish", ctx, task.RoutingKeyStatusChanged, mock.Anything).Return(nil).Once()

		require.NoError(t, handler.Handle(ctx, SetStatusCommand{TaskID: "1", Status: "done"}))
		require.NoError(t, handler.Handle(ctx, SetStatusCommand{TaskID: "1", Status: "done"}))

		got, _ := f.ws.Tasks.Get("1")
		assert.Equal(t, task.StatusDone, got.Status())
		f.assertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, task.Fields{ID: "1", Title: "Fix login bug"})
		handler := NewSetStatusHandler(f.ws, f.dispatcher)

		err := handler.Handle(ctx, SetStatusCommand{TaskID: "1", Status: "archived"})

		assert.ErrorIs(t, err, task.ErrInvalidStatus)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newFixture(t)
		handler := NewSetStatusHandler(f.ws, f.dispatcher)

		err := handler.Handle(ctx, SetStatusCommand{TaskID: "nope", Status: "review"})

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}

func TestDeleteTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, task.Fields{ID: "1", Title: "Fix login bug"})
	_, err := f.ws.Feedback.Record("1", "helpful")
	require.NoError(t, err)
	f.ws.DrainEvents()
	handler := NewDeleteTaskHandler(f.ws, f.dispatcher)

	f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil)
	f.publisher.On("Publish", ctx, task.RoutingKeyDeleted, mock.Anything).Return(nil)

	require.NoError(t, handler.Handle(ctx, DeleteTaskCommand{TaskID: "1"}))

	assert.Zero(t, f.ws.Tasks.Len())
	_, kept := f.ws.Feedback.Get("1")
	assert.True(t, kept)
	assert.ErrorIs(t, handler.Handle(ctx, DeleteTaskCommand{TaskID: "1"}), task.ErrTaskNotFound)
	f.assertExpectations(t)
}

func TestSeedTasksHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	handler := NewSeedTasksHandler(f.ws, f.dispatcher)

	f.repo.On("SaveTasks", ctx, mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", ctx, task.RoutingKeyCreated, mock.Anything).Return(nil).Twice()

	first, err := handler.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, first.Created)

	second, err := handler.Handle(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Created)

	readme, err := f.ws.Tasks.Get("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, readme.Dependencies())
	f.assertExpectations(t)
}
