package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/priora/internal/inbox/services"
	productivityCommands "github.com/felixgeelhaar/priora/internal/productivity/application/commands"
)

// ErrEmptyCapture is returned when neither text nor usable audio was supplied.
var ErrEmptyCapture = errors.New("nothing to capture")

// CaptureCommand contains a natural-language task description. Audio is
// transcribed first when present; Text is used when transcription is unavailable.
type CaptureCommand struct {
	Text  string
	Audio []byte
}

// CaptureResult reports the created task and what was recognised.
type CaptureResult struct {
	TaskID    string
	Candidate services.Candidate
	Warnings  []string
}

// CaptureHandler turns free text into a task.
type CaptureHandler struct {
	create      *productivityCommands.CreateTaskHandler
	transcriber services.Transcriber
	now         func() time.Time
	logger      *slog.Logger
}

// NewCaptureHandler builds a handler. A nil transcriber disables voice input.
func NewCaptureHandler(create *productivityCommands.CreateTaskHandler, transcriber services.Transcriber, now func() time.Time, logger *slog.Logger) *CaptureHandler {
	if transcriber == nil {
		transcriber = services.NoVoice{}
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptureHandler{create: create, transcriber: transcriber, now: now, logger: logger}
}

// Handle extracts fields from the input and creates the task.
func (h *CaptureHandler) Handle(ctx context.Context, cmd CaptureCommand) (*CaptureResult, error) {
	text := strings.TrimSpace(cmd.Text)
	if len(cmd.Audio) > 0 {
		spoken, err := h.transcriber.Transcribe(ctx, cmd.Audio)
		switch {
		case err == nil:
			text = strings.TrimSpace(spoken)
		case errors.Is(err, services.ErrVoiceUnavailable) && text != "":
			h.logger.Warn("voice input unavailable, using typed text")
		default:
			return nil, fmt.Errorf("transcribe: %w", err)
		}
	}
	if text == "" {
		return nil, ErrEmptyCapture
	}

	candidate := services.Extract(text, h.now())
	var warnings []string
	if candidate.Ambiguous {
		warnings = append(warnings, fmt.Sprintf("several dates mentioned, using %s", candidate.DueDate))
		h.logger.Warn("ambiguous due date in captured text", "matches", candidate.Matches, "due_date", candidate.DueDate.String())
	}

	createCmd := productivityCommands.CreateTaskCommand{
		Title:          candidate.Title,
		EstimatedHours: candidate.EstimatedHours,
	}
	if candidate.DueDate != nil {
		createCmd.DueDate = candidate.DueDate.String()
	}
	if candidate.Importance != nil {
		createCmd.Importance = *candidate.Importance
	}

	created, err := h.create.Handle(ctx, createCmd)
	if err != nil {
		return nil, err
	}
	return &CaptureResult{
		TaskID:    created.TaskID,
		Candidate: candidate,
		Warnings:  append(warnings, created.Warnings...),
	}, nil
}
