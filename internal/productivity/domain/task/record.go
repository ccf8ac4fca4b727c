package task

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

// Record is the serialized form of a task used for persistence and the scoring contract.
type Record struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	DueDate        *value_objects.Date `json:"due_date"`
	EstimatedHours *float64            `json:"estimated_hours"`
	Importance     int                 `json:"importance"`
	Dependencies   []string            `json:"dependencies"`
	Status         string              `json:"status"`
	Score          *float64            `json:"score,omitempty"`
	Explanation    []string            `json:"explanation,omitempty"`
	CreatedAt      time.Time           `json:"created_at,omitzero"`
	UpdatedAt      time.Time           `json:"updated_at,omitzero"`
}

// UnmarshalJSON decodes a record and drops a due date that is not a valid
// YYYY-MM-DD string instead of failing the whole record.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		DueDate json.RawMessage `json:"due_date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.DueDate = lenientDate(aux.DueDate)
	return nil
}

func lenientDate(raw json.RawMessage) *value_objects.Date {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var d value_objects.Date
	if err := json.Unmarshal(raw, &d); err != nil || d.IsZero() {
		return nil
	}
	return &d
}

// Record returns a detached copy of the task state.
func (t *Task) Record() Record {
	deps := slices.Clone(t.dependencies)
	if deps == nil {
		deps = []string{}
	}
	r := Record{
		ID:             t.ID(),
		Title:          t.title,
		DueDate:        t.dueDate,
		EstimatedHours: t.estimatedHours,
		Importance:     t.importance.Int(),
		Dependencies:   deps,
		Status:         t.status.String(),
		Explanation:    slices.Clone(t.explanation),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
	if t.score != nil {
		s := *t.score
		r.Score = &s
	}
	return r
}

// FromRecord rehydrates a task from persisted state.
// Optional fields that fail validation fall back to their defaults; only an empty title is rejected.
func FromRecord(r Record) (*Task, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	id := strings.TrimSpace(r.ID)
	identity := domain.NewIdentity("")
	if id != "" {
		created, updated := r.CreatedAt, r.UpdatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		if updated.IsZero() {
			updated = created
		}
		identity = domain.RestoreIdentity(id, created, updated)
	}

	status, err := ParseStatus(r.Status)
	if err != nil {
		status = StatusBacklog
	}

	var due *value_objects.Date
	if r.DueDate != nil && !r.DueDate.IsZero() {
		d := *r.DueDate
		due = &d
	}

	t := &Task{
		Aggregate:      domain.RestoreAggregate(identity),
		title:          title,
		dueDate:        due,
		estimatedHours: sanitizeHours(r.EstimatedHours),
		importance:     value_objects.Importance(r.Importance).OrDefault(),
		status:         status,
		explanation:    slices.Clone(r.Explanation),
	}
	t.dependencies = normalizeDependencies(t.ID(), r.Dependencies)
	if r.Score != nil {
		s := *r.Score
		t.score = &s
	}
	return t, nil
}
