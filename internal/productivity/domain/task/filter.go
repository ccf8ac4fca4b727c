package task

import (
	"cmp"
	"slices"
	"strings"
)

// Effort buckets.
const (
	EffortQuick = "quick"
	EffortSmall = "small"
	EffortLong  = "long"
)

// Sort keys accepted by Filter.SortBy.
const (
	SortByScore      = "score"
	SortByDueDate    = "due_date"
	SortByImportance = "importance"
	SortByTitle      = "title"
)

// Filter selects tasks for listing. The zero value matches everything in insertion order.
type Filter struct {
	Text       string
	Importance string
	Effort     string
	Status     *Status
	SortBy     string
}

// Matches reports whether t satisfies every set criterion.
func (f Filter) Matches(t *Task) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(t.title), strings.ToLower(strings.TrimSpace(f.Text))) {
		return false
	}
	if f.Importance != "" && t.importance.Bucket() != strings.ToLower(f.Importance) {
		return false
	}
	if f.Effort != "" && !matchesEffort(strings.ToLower(f.Effort), t.estimatedHours) {
		return false
	}
	if f.Status != nil && t.status != *f.Status {
		return false
	}
	return true
}

// Unknown effort is never quick or small, and never long either.
func matchesEffort(bucket string, hours *float64) bool {
	if hours == nil {
		return false
	}
	switch bucket {
	case EffortQuick:
		return *hours <= 1
	case EffortSmall:
		return *hours <= 4
	case EffortLong:
		return *hours > 4
	default:
		return true
	}
}

// Sort orders tasks in place by key. Unknown keys keep the current order.
// Scores sort descending, due dates ascending with unscheduled tasks last.
func Sort(tasks []*Task, key string) {
	switch key {
	case SortByScore:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return cmp.Compare(scoreOf(b), scoreOf(a))
		})
	case SortByDueDate:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			switch {
			case a.dueDate == nil && b.dueDate == nil:
				return 0
			case a.dueDate == nil:
				return 1
			case b.dueDate == nil:
				return -1
			}
			return a.dueDate.Time().Compare(b.dueDate.Time())
		})
	case SortByImportance:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return cmp.Compare(b.importance, a.importance)
		})
	case SortByTitle:
		slices.SortStableFunc(tasks, func(a, b *Task) int {
			return strings.Compare(strings.ToLower(a.title), strings.ToLower(b.title))
		})
	}
}

func scoreOf(t *Task) float64 {
	if t.score == nil {
		return -1
	}
	return *t.score
}
