package queries

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/graph"
)

// CyclesReport lists dependency cycles and dangling references.
type CyclesReport struct {
	Cycles   [][]string          `json:"cycles"`
	Dangling map[string][]string `json:"dangling,omitempty"`
	Order    []string            `json:"order,omitempty"`
}

// DetectCyclesHandler analyzes the dependency graph of the current tasks.
type DetectCyclesHandler struct {
	store *services.TaskStore
}

// NewDetectCyclesHandler creates a new DetectCyclesHandler.
func NewDetectCyclesHandler(store *services.TaskStore) *DetectCyclesHandler {
	return &DetectCyclesHandler{store: store}
}

// Handle returns the cycle report. When the graph is acyclic it also returns a
// dependency-first work order.
func (h *DetectCyclesHandler) Handle(_ context.Context) (*CyclesReport, error) {
	tasks := h.store.All()
	g := graph.FromTasks(tasks)

	report := &CyclesReport{Cycles: g.FindCycles()}
	if report.Cycles == nil {
		report.Cycles = [][]string{}
	}

	known := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		known[t.ID()] = struct{}{}
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies() {
			if _, ok := known[dep]; ok {
				continue
			}
			if report.Dangling == nil {
				report.Dangling = make(map[string][]string)
			}
			report.Dangling[t.ID()] = append(report.Dangling[t.ID()], dep)
		}
	}

	if len(report.Cycles) == 0 {
		order, err := g.TopologicalOrder()
		if err == nil {
			report.Order = order
		}
	}
	return report, nil
}
