package services

import (
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

// ToTaskInput maps a task to its scoring request form. Score and explanation are left out.
func ToTaskInput(t *task.Task) types.TaskInput {
	in := types.TaskInput{
		ID:             t.ID(),
		Title:          t.Title(),
		EstimatedHours: t.EstimatedHours(),
		Importance:     t.Importance().Int(),
		Dependencies:   t.Dependencies(),
	}
	if in.Dependencies == nil {
		in.Dependencies = []string{}
	}
	if due := t.DueDate(); due != nil {
		in.DueDate = due.String()
	}
	return in
}

// ToTaskInputs maps tasks in order.
func ToTaskInputs(tasks []*task.Task) []types.TaskInput {
	out := make([]types.TaskInput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskInput(t))
	}
	return out
}

// ToExportTasks maps tasks to export rows carrying their last known score.
func ToExportTasks(tasks []*task.Task) []types.ExportTask {
	out := make([]types.ExportTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, types.ExportTask{
			TaskInput: ToTaskInput(t),
			Status:    t.Status().String(),
			Score:     t.Score(),
		})
	}
	return out
}

// ToWireWeights maps a vector to its wire form. Nil stays nil.
func ToWireWeights(v *weights.Vector) *types.Weights {
	if v == nil {
		return nil
	}
	return &types.Weights{
		Urgency:    v.Urgency,
		Importance: v.Importance,
		Effort:     v.Effort,
		Dependency: v.Dependency,
	}
}
