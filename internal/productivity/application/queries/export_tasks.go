package queries

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
)

// DefaultExportFormat is used when no format is requested.
const DefaultExportFormat = "csv"

// ExportTasksQuery asks the scoring engine to serialize the task list.
type ExportTasksQuery struct {
	Format string
}

// ExportTasksHandler handles the ExportTasksQuery.
type ExportTasksHandler struct {
	ws     *services.Workspace
	scorer types.ScoringEngine
}

// NewExportTasksHandler creates a new ExportTasksHandler.
func NewExportTasksHandler(ws *services.Workspace, scorer types.ScoringEngine) *ExportTasksHandler {
	return &ExportTasksHandler{ws: ws, scorer: scorer}
}

// Handle returns the export document. On error no partial document is returned.
func (h *ExportTasksHandler) Handle(ctx context.Context, query ExportTasksQuery) (*types.ExportResponse, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = DefaultExportFormat
	}
	resp, err := h.scorer.Export(ctx, types.ExportRequest{
		Tasks:  services.ToExportTasks(h.ws.Tasks.All()),
		Format: format,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
