package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
)

// Score bands and the due-soon horizon used by the dashboard.
const (
	HighScoreBand   = 70.0
	MediumScoreBand = 40.0
	DueSoonDays     = 3
)

// Dashboard summarises the task list.
type Dashboard struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	HighScore  int            `json:"high_score"`
	MedScore   int            `json:"medium_score"`
	LowScore   int            `json:"low_score"`
	Unscored   int            `json:"unscored"`
	DueSoon    int            `json:"due_soon"`
	DueLater   int            `json:"due_later"`
	NoDueDate  int            `json:"no_due_date"`
	Overdue    int            `json:"overdue"`
	WithDeps   int            `json:"with_dependencies"`
	FeedbackOn int            `json:"feedback_records"`
}

// DashboardHandler computes task statistics.
type DashboardHandler struct {
	ws  *services.Workspace
	now func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ws *services.Workspace, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{ws: ws, now: now}
}

// Handle computes the dashboard. Unscored tasks count in the low band.
func (h *DashboardHandler) Handle(_ context.Context) (*Dashboard, error) {
	today := value_objects.DateOf(h.now())
	d := &Dashboard{ByStatus: make(map[string]int)}

	for _, t := range h.ws.Tasks.All() {
		d.Total++
		d.ByStatus[t.Status().String()]++

		switch s := t.Score(); {
		case s == nil:
			d.Unscored++
			d.LowScore++
		case *s >= HighScoreBand:
			d.HighScore++
		case *s >= MediumScoreBand:
			d.MedScore++
		default:
			d.LowScore++
		}

		if due := t.DueDate(); due == nil {
			d.NoDueDate++
		} else {
			days := due.DaysUntil(today)
			if days < 0 {
				d.Overdue++
			}
			if days <= DueSoonDays {
				d.DueSoon++
			} else {
				d.DueLater++
			}
		}

		if t.HasDependencies() {
			d.WithDeps++
		}
	}
	d.FeedbackOn = len(h.ws.Feedback.Records())
	return d, nil
}
