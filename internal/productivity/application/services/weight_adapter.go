package services

import (
	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

// Adaptation thresholds and deltas.
const (
	HighImportanceThreshold = 7
	QuickHoursThreshold     = 1.0
	unknownEffortHours      = 9.0

	ImportanceDelta = 0.10
	EffortDelta     = 0.12
	DependencyDelta = 0.08
)

// Aggregates are the helpful counts summed over feedback records whose task still exists.
type Aggregates struct {
	HighImportanceHelpful int `json:"high_importance_helpful"`
	QuickHelpful          int `json:"quick_helpful"`
	BlockedHelpful        int `json:"blocked_helpful"`
	Considered            int `json:"considered"`
	Orphaned              int `json:"orphaned"`
}

// Aggregate sums the helpful counters of records whose task resolves in tasks.
// The result does not depend on record order.
func Aggregate(records []feedback.Record, tasks map[string]*task.Task) Aggregates {
	var agg Aggregates
	for _, rec := range records {
		t, ok := tasks[rec.TaskID]
		if !ok {
			agg.Orphaned++
			continue
		}
		agg.Considered++

		if t.Importance().Int() >= HighImportanceThreshold {
			agg.HighImportanceHelpful += rec.HelpfulCount
		}
		hours := unknownEffortHours
		if h := t.EstimatedHours(); h != nil {
			hours = *h
		}
		if hours <= QuickHoursThreshold {
			agg.QuickHelpful += rec.HelpfulCount
		}
		if t.HasDependencies() {
			agg.BlockedHelpful += rec.HelpfulCount
		}
	}
	return agg
}

// Adapt applies the fixed feedback deltas to current and renormalises the result.
func Adapt(current weights.Vector, records []feedback.Record, tasks map[string]*task.Task) (weights.Vector, Aggregates) {
	agg := Aggregate(records, tasks)

	next := current
	if agg.HighImportanceHelpful > agg.QuickHelpful {
		next.Importance += ImportanceDelta
	}
	if agg.QuickHelpful > agg.HighImportanceHelpful {
		next.Effort += EffortDelta
	}
	if agg.BlockedHelpful > 0 {
		next.Dependency += DependencyDelta
	}
	return next.Normalize(), agg
}
