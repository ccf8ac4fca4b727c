// Package registry selects, builds and tears down the scoring engine the application talks to.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
)

// Mode names a scoring transport.
type Mode string

const (
	// ModeHTTP talks to a scoring service over HTTP.
	ModeHTTP Mode = "http"

	// ModePlugin runs the scoring engine as a go-plugin child process.
	ModePlugin Mode = "plugin"

	// ModeBuiltin scores in-process.
	ModeBuiltin Mode = "builtin"
)

// ParseMode parses a transport name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeHTTP, ModePlugin, ModeBuiltin:
		return m, nil
	case "":
		return ModeHTTP, nil
	default:
		return "", fmt.Errorf("%w: unknown scorer mode %q", sdk.ErrEngineNotFound, s)
	}
}

// Factory builds a scoring engine on first use.
type Factory func(ctx context.Context) (types.ScoringEngine, error)

// EngineStatus represents the current state of an engine.
type EngineStatus string

const (
	// StatusUnloaded means the engine is registered but not built.
	StatusUnloaded EngineStatus = "unloaded"

	// StatusReady means the engine is built and ready.
	StatusReady EngineStatus = "ready"

	// StatusFailed means the factory returned an error.
	StatusFailed EngineStatus = "failed"

	// StatusShutdown means the engine has been shut down.
	StatusShutdown EngineStatus = "shutdown"
)

type entry struct {
	factory Factory
	engine  types.ScoringEngine
	status  EngineStatus
	err     error
}

// Registry manages engine registration and lazy construction.
type Registry struct {
	mu      sync.Mutex
	engines map[Mode]*entry
	logger  *slog.Logger
}

// NewRegistry creates a new engine registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		engines: make(map[Mode]*entry),
		logger:  logger,
	}
}

// Register adds a factory under mode.
func (r *Registry) Register(mode Mode, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[mode]; exists {
		return fmt.Errorf("scorer mode %s already registered", mode)
	}
	r.engines[mode] = &entry{factory: factory, status: StatusUnloaded}
	r.logger.Debug("registered scoring engine", "mode", mode)
	return nil
}

// Get returns the engine for mode, building it on first use.
// A failed build is remembered and returned again without retrying.
func (r *Registry) Get(ctx context.Context, mode Mode) (types.ScoringEngine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.engines[mode]
	if !exists {
		return nil, fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, mode)
	}

	switch e.status {
	case StatusReady:
		return e.engine, nil
	case StatusFailed:
		return nil, e.err
	case StatusShutdown:
		return nil, fmt.Errorf("scorer mode %s is shut down", mode)
	}

	engine, err := e.factory(ctx)
	if err != nil {
		e.status = StatusFailed
		e.err = fmt.Errorf("build %s scorer: %w", mode, err)
		r.logger.Error("failed to build scoring engine", "mode", mode, "error", err)
		return nil, e.err
	}

	e.engine = engine
	e.status = StatusReady
	r.logger.Info("scoring engine ready", "mode", mode, "engine_id", engine.Metadata().ID)
	return engine, nil
}

// Status returns the status of the engine registered under mode.
func (r *Registry) Status(mode Mode) (EngineStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.engines[mode]
	if !exists {
		return "", sdk.ErrEngineNotFound
	}
	return e.status, nil
}

// Modes returns the registered modes in name order.
func (r *Registry) Modes() []Mode {
	r.mu.Lock()
	defer r.mu.Unlock()

	modes := make([]Mode, 0, len(r.engines))
	for m := range r.engines {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	return modes
}

// ShutdownAll shuts down every built engine.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for mode, e := range r.engines {
		if e.status != StatusReady {
			continue
		}
		if err := e.engine.Shutdown(ctx); err != nil {
			r.logger.Error("failed to shutdown scoring engine", "mode", mode, "error", err)
			errs = append(errs, fmt.Errorf("scorer %s: %w", mode, err))
		}
		e.status = StatusShutdown
	}
	return errors.Join(errs...)
}
