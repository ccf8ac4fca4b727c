package task

import (
	"errors"
	"slices"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

var (
	ErrEmptyTitle    = errors.New("task title cannot be empty")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrTaskNotFound  = errors.New("task not found")
	ErrDuplicateID   = errors.New("task id already exists")
)

// Task is a unit of work with scheduling, effort, importance and dependency metadata.
type Task struct {
	domain.Aggregate
	title          string
	dueDate        *value_objects.Date
	estimatedHours *float64
	importance     value_objects.Importance
	dependencies   []string
	status         Status
	score          *float64
	explanation    []string
}

// Fields carries the caller-supplied attributes of a new task.
// Zero values select defaults: generated id, importance 5, no due date, unknown effort.
type Fields struct {
	ID             string
	Title          string
	DueDate        *value_objects.Date
	EstimatedHours *float64
	Importance     int
	Dependencies   []string
}

// NewTask creates a task in the backlog.
func NewTask(f Fields) (*Task, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		Aggregate:      domain.NewAggregate(strings.TrimSpace(f.ID)),
		title:          title,
		dueDate:        f.DueDate,
		estimatedHours: sanitizeHours(f.EstimatedHours),
		importance:     value_objects.Importance(f.Importance).OrDefault(),
		status:         StatusBacklog,
	}
	t.dependencies = normalizeDependencies(t.ID(), f.Dependencies)

	t.Raise(NewTaskCreated(t.ID(), t.title, t.importance.Int()))

	return t, nil
}

// Getters

func (t *Task) Title() string                        { return t.title }
func (t *Task) DueDate() *value_objects.Date         { return t.dueDate }
func (t *Task) EstimatedHours() *float64             { return t.estimatedHours }
func (t *Task) Importance() value_objects.Importance { return t.importance }
func (t *Task) Dependencies() []string               { return slices.Clone(t.dependencies) }
func (t *Task) Status() Status                       { return t.status }
func (t *Task) Score() *float64                      { return t.score }
func (t *Task) Explanation() []string                { return slices.Clone(t.explanation) }
func (t *Task) IsDone() bool                         { return t.status == StatusDone }
func (t *Task) HasDependencies() bool                { return len(t.dependencies) > 0 }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDueDate updates the due date; nil unschedules the task.
func (t *Task) SetDueDate(due *value_objects.Date) {
	t.dueDate = due
	t.Touch()
}

// SetEstimatedHours updates the effort estimate; nil or negative means unknown.
func (t *Task) SetEstimatedHours(hours *float64) {
	t.estimatedHours = sanitizeHours(hours)
	t.Touch()
}

// SetImportance clamps and stores the importance.
func (t *Task) SetImportance(n int) {
	t.importance = value_objects.NewImportance(n)
	t.Touch()
}

// SetDependencies replaces the dependency set.
// The task's own id is dropped and duplicates are collapsed, keeping first-seen order.
func (t *Task) SetDependencies(ids []string) {
	t.dependencies = normalizeDependencies(t.ID(), ids)
	t.Touch()
}

// SetStatus moves the task to the given status. Setting the current status again is a no-op.
func (t *Task) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if t.status == status {
		return nil
	}
	from := t.status
	t.status = status
	t.Touch()
	t.Raise(NewTaskStatusChanged(t.ID(), from, status))
	return nil
}

// ApplyScore records a score and its explanation as returned by the scoring service.
func (t *Task) ApplyScore(score float64, explanation []string) {
	t.score = &score
	t.explanation = slices.Clone(explanation)
	t.Touch()
	t.Raise(NewTaskScored(t.ID(), score))
}

func sanitizeHours(h *float64) *float64 {
	if h == nil || *h < 0 {
		return nil
	}
	v := *h
	return &v
}

func normalizeDependencies(self string, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == self {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// MarkDeleted records the removal of the task from the store.
func (t *Task) MarkDeleted() {
	t.Raise(NewTaskDeleted(t.ID()))
}
