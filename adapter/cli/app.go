package cli

import (
	"log/slog"
	"time"

	internalApp "github.com/felixgeelhaar/priora/internal/app"
	"github.com/felixgeelhaar/priora/internal/engine/runtime"
	inboxCommands "github.com/felixgeelhaar/priora/internal/inbox/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/felixgeelhaar/priora/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Now    func() time.Time

	// Task Command Handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	SetStatusHandler  *commands.SetStatusHandler
	DeleteTaskHandler *commands.DeleteTaskHandler
	SeedTasksHandler  *commands.SeedTasksHandler
	CaptureHandler    *inboxCommands.CaptureHandler

	// Scoring Command Handlers
	AnalyzeTasksHandler   *commands.AnalyzeTasksHandler
	RecordFeedbackHandler *commands.RecordFeedbackHandler
	LearnWeightsHandler   *commands.LearnWeightsHandler
	SetWeightsHandler     *commands.SetWeightsHandler

	// Query Handlers
	ListTasksHandler    *queries.ListTasksHandler
	GetTaskHandler      *queries.GetTaskHandler
	DetectCyclesHandler *queries.DetectCyclesHandler
	ShowWeightsHandler  *queries.ShowWeightsHandler
	DashboardHandler    *queries.DashboardHandler
	SuggestTasksHandler *queries.SuggestTasksHandler
	ExportTasksHandler  *queries.ExportTasksHandler

	// Infrastructure
	Workspace *services.Workspace
	Store     docstore.Store
	Scorer    *runtime.Executor
	Health    *observability.HealthRegistry
	Metrics   *observability.InMemoryMetrics
}

// NewApp creates a CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Config:                c.Config,
		Logger:                c.Logger,
		Now:                   c.Now,
		CreateTaskHandler:     c.CreateTaskHandler,
		UpdateTaskHandler:     c.UpdateTaskHandler,
		SetStatusHandler:      c.SetStatusHandler,
		DeleteTaskHandler:     c.DeleteTaskHandler,
		SeedTasksHandler:      c.SeedTasksHandler,
		CaptureHandler:        c.CaptureHandler,
		AnalyzeTasksHandler:   c.AnalyzeTasksHandler,
		RecordFeedbackHandler: c.RecordFeedbackHandler,
		LearnWeightsHandler:   c.LearnWeightsHandler,
		SetWeightsHandler:     c.SetWeightsHandler,
		ListTasksHandler:      c.ListTasksHandler,
		GetTaskHandler:        c.GetTaskHandler,
		DetectCyclesHandler:   c.DetectCyclesHandler,
		ShowWeightsHandler:    c.ShowWeightsHandler,
		DashboardHandler:      c.DashboardHandler,
		SuggestTasksHandler:   c.SuggestTasksHandler,
		ExportTasksHandler:    c.ExportTasksHandler,
		Workspace:             c.Workspace,
		Store:                 c.Store,
		Scorer:                c.Scorer,
		Health:                c.Health,
		Metrics:               c.Metrics,
	}
}

// Strategy returns the configured scoring strategy.
func (a *App) Strategy() string {
	if a.Config == nil {
		return ""
	}
	return a.Config.Strategy
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
