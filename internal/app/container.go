// Package app wires configuration, storage, the event bus and the scoring
// transports into the handlers used by the CLI, the MCP server and the scorer service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/builtin"
	"github.com/felixgeelhaar/priora/internal/engine/registry"
	"github.com/felixgeelhaar/priora/internal/engine/remote"
	"github.com/felixgeelhaar/priora/internal/engine/runtime"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	inboxCommands "github.com/felixgeelhaar/priora/internal/inbox/application/commands"
	inboxServices "github.com/felixgeelhaar/priora/internal/inbox/services"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/felixgeelhaar/priora/internal/productivity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore"
	_ "github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore/redis"    // Register Redis driver
	_ "github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/felixgeelhaar/priora/pkg/observability"
)

// healthProbeKey is read by the store health check; it is never written.
const healthProbeKey = "priora_health_probe"

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry
	Now     func() time.Time

	// Storage
	Store     docstore.Store
	Workspace *services.Workspace

	// Events
	EventPublisher eventbus.Publisher
	EventBus       *eventbus.InProcessEventBus
	Dispatcher     *sharedApplication.EventDispatcher

	// Scoring
	EngineRegistry *registry.Registry
	PluginLoader   *registry.Loader
	ScorerMode     registry.Mode
	Scorer         *runtime.Executor
	Coordinator    *services.ScoringCoordinator

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

	closers []func() error
}

// Options override parts of the wiring, mostly for tests.
type Options struct {
	// Engine replaces the configured scoring transport.
	Engine types.ScoringEngine
	// Now replaces the wall clock used for relative dates.
	Now func() time.Time
}

// NewContainer opens the configured store, loads the persisted state and wires every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
		Now:     opts.Now,
	}

	store, err := docstore.Open(ctx, docstore.Config{URL: cfg.StoreURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	c.Store = store
	c.closers = append(c.closers, store.Close)
	logger.Debug("document store opened", "driver", store.Driver())

	c.Workspace = services.NewWorkspace(persistence.NewStateRepository(store, logger), weights.Default(), logger)
	if err := c.Workspace.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	if err := c.initEvents(); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initScoring(opts.Engine, opts.Now); err != nil {
		c.Close()
		return nil, err
	}

	c.initHandlers(opts.Now)
	c.initHealth()

	logger.Debug("container initialized",
		"store", store.Driver(),
		"scorer_mode", c.ScorerMode,
		"tasks", c.Workspace.Tasks.Len(),
	)
	return c, nil
}

func (c *Container) initEvents() error {
	bus := eventbus.NewInProcessEventBus(c.Logger)
	bus.RegisterConsumer(NewEventLogger(c.Logger, c.Metrics))
	c.EventBus = bus
	c.EventPublisher = bus

	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(eventbus.RabbitMQPublisherConfig{
			URL:    c.Config.RabbitMQURL,
			Logger: c.Logger,
		})
		if err != nil {
			return err
		}
		c.EventPublisher = eventbus.NewFanoutPublisher(bus, publisher)
		c.Logger.Debug("publishing events to RabbitMQ")
	}
	c.closers = append(c.closers, c.EventPublisher.Close)
	c.Dispatcher = sharedApplication.NewEventDispatcher(c.EventPublisher, eventbus.Encode, c.Logger)
	return nil
}

func (c *Container) initScoring(override types.ScoringEngine, now func() time.Time) error {
	c.EngineRegistry = registry.NewRegistry(c.Logger)
	c.PluginLoader = registry.NewLoader(c.Logger)
	c.closers = append(c.closers, func() error {
		err := c.EngineRegistry.ShutdownAll(context.Background())
		c.PluginLoader.UnloadAll()
		return err
	})

	cfg := c.Config
	factories := map[registry.Mode]registry.Factory{
		registry.ModeBuiltin: func(context.Context) (types.ScoringEngine, error) {
			return builtin.NewDefaultScoringEngine(builtin.WithClock(now)), nil
		},
		registry.ModeHTTP: func(context.Context) (types.ScoringEngine, error) {
			if cfg.ScorerURL == "" {
				return nil, errors.New("scorer url is not configured")
			}
			return remote.NewClient(cfg.ScorerURL, &http.Client{Timeout: cfg.ScorerTimeout}, c.Logger), nil
		},
		registry.ModePlugin: func(ctx context.Context) (types.ScoringEngine, error) {
			return c.PluginLoader.Load(ctx, registry.LoadOptions{
				BinaryPath: cfg.ScorerPluginPath,
				Checksum:   cfg.ScorerPluginChecksum,
			})
		},
	}
	for mode, factory := range factories {
		if err := c.EngineRegistry.Register(mode, factory); err != nil {
			return err
		}
	}

	mode, err := registry.ParseMode(cfg.ScorerMode)
	if err != nil {
		return err
	}
	c.ScorerMode = mode

	var engine types.ScoringEngine = c.EngineRegistry.Lazy(mode)
	if override != nil {
		engine = override
	}

	execCfg := runtime.DefaultExecutorConfig()
	if cfg.ScorerTimeout > 0 {
		execCfg.CallTimeout = cfg.ScorerTimeout
	}
	c.Scorer = runtime.NewExecutor(engine, runtime.NewMetricsCollector(c.Metrics), c.Logger, execCfg)
	c.Coordinator = services.NewScoringCoordinator(c.Workspace.Tasks, c.Workspace.Weights, c.Scorer, c.Logger)
	return nil
}

func (c *Container) initHandlers(now func() time.Time) {
	ws, d := c.Workspace, c.Dispatcher

	c.CreateTaskHandler = commands.NewCreateTaskHandler(ws, d)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(ws, d)
	c.SetStatusHandler = commands.NewSetStatusHandler(ws, d)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(ws, d)
	c.SeedTasksHandler = commands.NewSeedTasksHandler(ws, d)
	c.CaptureHandler = inboxCommands.NewCaptureHandler(c.CreateTaskHandler, inboxServices.NoVoice{}, now, c.Logger)

	c.AnalyzeTasksHandler = commands.NewAnalyzeTasksHandler(ws, c.Coordinator, d)
	c.RecordFeedbackHandler = commands.NewRecordFeedbackHandler(ws, d, c.Scorer, c.Logger)
	c.LearnWeightsHandler = commands.NewLearnWeightsHandler(ws, d)
	c.SetWeightsHandler = commands.NewSetWeightsHandler(ws, d)

	c.ListTasksHandler = queries.NewListTasksHandler(ws.Tasks)
	c.GetTaskHandler = queries.NewGetTaskHandler(ws.Tasks)
	c.DetectCyclesHandler = queries.NewDetectCyclesHandler(ws.Tasks)
	c.ShowWeightsHandler = queries.NewShowWeightsHandler(ws)
	c.DashboardHandler = queries.NewDashboardHandler(ws, now)
	c.SuggestTasksHandler = queries.NewSuggestTasksHandler(ws, c.Scorer)
	c.ExportTasksHandler = queries.NewExportTasksHandler(ws, c.Scorer)
}

func (c *Container) initHealth() {
	c.Health.Register("store", observability.PingChecker("store", true, func(ctx context.Context) error {
		_, err := c.Store.Get(ctx, healthProbeKey)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return err
	}))
	c.Health.Register("scorer", observability.PingChecker("scorer", false, func(ctx context.Context) error {
		if status := c.Scorer.HealthCheck(ctx); !status.Healthy {
			return errors.New(status.Message)
		}
		return nil
	}))
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("error during shutdown", "error", err)
		}
	}
	c.closers = nil
}
