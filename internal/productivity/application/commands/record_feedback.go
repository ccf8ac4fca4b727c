package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

// RecordFeedbackCommand records a helpful or done signal for a task.
type RecordFeedbackCommand struct {
	TaskID string
	Label  string
}

// RecordFeedbackResult contains the updated counters.
type RecordFeedbackResult struct {
	TaskID    string
	Helpful   int
	Done      int
	Forwarded bool
}

// RecordFeedbackHandler handles the RecordFeedbackCommand.
type RecordFeedbackHandler struct {
	ws         *services.Workspace
	dispatcher *sharedApplication.EventDispatcher
	scorer     types.ScoringEngine
	logger     *slog.Logger
}

// NewRecordFeedbackHandler creates a new RecordFeedbackHandler.
// When scorer is not nil the signal is also forwarded to it.
func NewRecordFeedbackHandler(ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher, scorer types.ScoringEngine, logger *slog.Logger) *RecordFeedbackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordFeedbackHandler{ws: ws, dispatcher: dispatcher, scorer: scorer, logger: logger}
}

// Handle executes the RecordFeedbackCommand.
func (h *RecordFeedbackHandler) Handle(ctx context.Context, cmd RecordFeedbackCommand) (*RecordFeedbackResult, error) {
	kind, err := feedback.ParseKind(cmd.Label)
	if err != nil {
		return nil, err
	}
	t, err := h.ws.Tasks.Get(cmd.TaskID)
	if err != nil {
		return nil, err
	}

	rec, err := h.ws.Feedback.Record(t.ID(), kind)
	if err != nil {
		return nil, err
	}
	if err := commit(ctx, h.ws, h.dispatcher, scopeFeedback); err != nil {
		return nil, err
	}

	result := &RecordFeedbackResult{TaskID: rec.TaskID, Helpful: rec.HelpfulCount, Done: rec.DoneCount}
	if h.scorer != nil {
		_, err := h.scorer.Feedback(ctx, types.FeedbackRequest{TaskID: rec.TaskID, Label: string(kind)})
		if err != nil {
			h.logger.Warn("failed to forward feedback to scoring engine", "task_id", rec.TaskID, "error", err)
		} else {
			result.Forwarded = true
		}
	}
	return result, nil
}
