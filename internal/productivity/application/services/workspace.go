package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

// StateRepository persists the task list, the feedback ledger and the custom weight vector.
// Loading absent or unreadable documents yields empty state rather than an error.
type StateRepository interface {
	LoadTasks(ctx context.Context) ([]task.Record, error)
	SaveTasks(ctx context.Context, records []task.Record) error
	LoadFeedback(ctx context.Context) (map[string]feedback.Record, error)
	SaveFeedback(ctx context.Context, doc map[string]feedback.Record) error
	LoadWeights(ctx context.Context) (*weights.Vector, error)
	SaveWeights(ctx context.Context, v *weights.Vector) error
}

// Workspace is the per-session state threaded through every command and query.
type Workspace struct {
	Tasks    *TaskStore
	Feedback *FeedbackBook
	Weights  *WeightHolder

	repo   StateRepository
	logger *slog.Logger
}

// NewWorkspace creates an empty workspace backed by repo.
func NewWorkspace(repo StateRepository, base weights.Vector, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		Tasks:    NewTaskStore(),
		Feedback: NewFeedbackBook(),
		Weights:  NewWeightHolder(base),
		repo:     repo,
		logger:   logger,
	}
}

// Load replaces the in-memory state with what the repository holds.
func (w *Workspace) Load(ctx context.Context) error {
	records, err := w.repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	doc, err := w.repo.LoadFeedback(ctx)
	if err != nil {
		return fmt.Errorf("load feedback: %w", err)
	}
	custom, err := w.repo.LoadWeights(ctx)
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}

	if skipped := w.Tasks.Restore(records); skipped > 0 {
		w.logger.Warn("skipped invalid stored tasks", "skipped", skipped)
	}
	w.Feedback.Restore(doc)
	w.Weights.Restore(custom)

	w.logger.Debug("workspace loaded",
		"tasks", w.Tasks.Len(),
		"feedback_records", len(doc),
		"custom_weights", custom != nil,
	)
	return nil
}

// SaveTasks persists the task list.
func (w *Workspace) SaveTasks(ctx context.Context) error {
	if err := w.repo.SaveTasks(ctx, w.Tasks.Records()); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// SaveFeedback persists the feedback ledger.
func (w *Workspace) SaveFeedback(ctx context.Context) error {
	if err := w.repo.SaveFeedback(ctx, w.Feedback.Snapshot()); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

// SaveWeights persists the custom weight vector.
func (w *Workspace) SaveWeights(ctx context.Context) error {
	if err := w.repo.SaveWeights(ctx, w.Weights.Custom()); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}

// DrainEvents collects pending events from every part of the workspace.
func (w *Workspace) DrainEvents() []domain.DomainEvent {
	var events []domain.DomainEvent
	events = append(events, w.Tasks.DrainEvents()...)
	events = append(events, w.Feedback.DrainEvents()...)
	events = append(events, w.Weights.DrainEvents()...)
	return events
}
