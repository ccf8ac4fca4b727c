package task

import "github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"

// Patch lists the fields an update should change. Nil fields are left untouched.
type Patch struct {
	Title          *string
	DueDate        *value_objects.Date
	ClearDueDate   bool
	EstimatedHours *float64
	ClearEstimate  bool
	Importance     *int
	Dependencies   *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.DueDate == nil && !p.ClearDueDate &&
		p.EstimatedHours == nil && !p.ClearEstimate && p.Importance == nil && p.Dependencies == nil
}

// Apply changes the patched fields and returns their names.
// The title is validated before anything is written, so a rejected patch leaves the task untouched.
func (t *Task) Apply(p Patch) ([]string, error) {
	if p.IsEmpty() {
		return nil, nil
	}

	var fields []string
	if p.Title != nil {
		if err := t.SetTitle(*p.Title); err != nil {
			return nil, err
		}
		fields = append(fields, "title")
	}

	switch {
	case p.ClearDueDate:
		t.SetDueDate(nil)
		fields = append(fields, "due_date")
	case p.DueDate != nil:
		due := *p.DueDate
		t.SetDueDate(&due)
		fields = append(fields, "due_date")
	}

	switch {
	case p.ClearEstimate:
		t.SetEstimatedHours(nil)
		fields = append(fields, "estimated_hours")
	case p.EstimatedHours != nil:
		t.SetEstimatedHours(p.EstimatedHours)
		fields = append(fields, "estimated_hours")
	}

	if p.Importance != nil {
		t.SetImportance(*p.Importance)
		fields = append(fields, "importance")
	}
	if p.Dependencies != nil {
		t.SetDependencies(*p.Dependencies)
		fields = append(fields, "dependencies")
	}

	t.Raise(NewTaskUpdated(t.ID(), fields))
	return fields, nil
}
