package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/priora/internal/inbox/services"
	productivityCommands "github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	productivityServices "github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/felixgeelhaar/priora/internal/productivity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, []byte) (string, error) {
	return s.text, s.err
}

var captureNow = time.Date(2025, time.November, 20, 8, 0, 0, 0, time.UTC)

func newCaptureFixture(t *testing.T, transcriber services.Transcriber) (*CaptureHandler, *productivityServices.Workspace, *docstore.MemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := docstore.NewMemoryStore()
	ws := productivityServices.NewWorkspace(persistence.NewStateRepository(store, logger), weights.Default(), logger)
	dispatcher := sharedApplication.NewEventDispatcher(nil, eventbus.Encode, logger)
	create := productivityCommands.NewCreateTaskHandler(ws, dispatcher)
	return NewCaptureHandler(create, transcriber, func() time.Time { return captureNow }, logger), ws, store
}

func TestCaptureHandler_CreatesTaskFromText(t *testing.T) {
	handler, ws, store := newCaptureFixture(t, nil)

	result, err := handler.Handle(context.Background(), CaptureCommand{Text: "  Submit report tomorrow 2h importance 9 "})
	require.NoError(t, err)
	require.NotEmpty(t, result.TaskID)
	assert.Empty(t, result.Warnings)

	created, err := ws.Tasks.Get(result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Submit report tomorrow 2h importance 9", created.Title())
	assert.Equal(t, "2025-11-21", created.DueDate().String())
	assert.Equal(t, 2.0, *created.EstimatedHours())
	assert.Equal(t, 9, created.Importance().Int())

	raw, err := store.Get(context.Background(), persistence.TasksKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Submit report")
}

func TestCaptureHandler_AmbiguousDateWarns(t *testing.T) {
	handler, _, _ := newCaptureFixture(t, nil)

	result, err := handler.Handle(context.Background(), CaptureCommand{Text: "Pay rent today or tomorrow"})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "2025-11-20")
	assert.True(t, result.Candidate.Ambiguous)
}

func TestCaptureHandler_Voice(t *testing.T) {
	t.Run("transcribed audio wins over text", func(t *testing.T) {
		handler, ws, _ := newCaptureFixture(t, stubTranscriber{text: "Book flights in 2 days"})

		result, err := handler.Handle(context.Background(), CaptureCommand{Text: "ignored", Audio: []byte{1}})
		require.NoError(t, err)
		created, err := ws.Tasks.Get(result.TaskID)
		require.NoError(t, err)
		assert.Equal(t, "Book flights in 2 days", created.Title())
	})

	t.Run("unavailable voice falls back to text", func(t *testing.T) {
		handler, ws, _ := newCaptureFixture(t, services.NoVoice{})

		result, err := handler.Handle(context.Background(), CaptureCommand{Text: "Typed instead", Audio: []byte{1}})
		require.NoError(t, err)
		created, err := ws.Tasks.Get(result.TaskID)
		require.NoError(t, err)
		assert.Equal(t, "Typed instead", created.Title())
	})

	t.Run("unavailable voice without text", func(t *testing.T) {
		handler, _, _ := newCaptureFixture(t, nil)

		_, err := handler.Handle(context.Background(), CaptureCommand{Audio: []byte{1}})
		assert.ErrorIs(t, err, services.ErrVoiceUnavailable)
	})

	t.Run("recognizer failure", func(t *testing.T) {
		handler, _, _ := newCaptureFixture(t, stubTranscriber{err: errors.New("mic unplugged")})

		_, err := handler.Handle(context.Background(), CaptureCommand{Text: "x", Audio: []byte{1}})
		assert.ErrorContains(t, err, "mic unplugged")
	})
}

func TestCaptureHandler_EmptyInput(t *testing.T) {
	handler, ws, _ := newCaptureFixture(t, nil)

	_, err := handler.Handle(context.Background(), CaptureCommand{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyCapture)
	assert.Equal(t, 0, ws.Tasks.Len())
}
