// Package runtime provides execution management for scoring engines with circuit breakers and metrics.
package runtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/sony/gobreaker/v2"
)

// Executor wraps a scoring engine with a circuit breaker, a per-call timeout and metrics.
// It satisfies types.ScoringEngine so callers never see the difference.
type Executor struct {
	engine  types.ScoringEngine
	metrics *MetricsCollector
	logger  *slog.Logger
	config  ExecutorConfig

	mu      sync.Mutex
	breaker *gobreaker.CircuitBreaker[any]
}

// ExecutorConfig configures the executor behavior.
type ExecutorConfig struct {
	// CircuitBreakerEnabled enables the circuit breaker.
	CircuitBreakerEnabled bool

	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32

	// CallTimeout bounds every engine operation. Zero disables the bound.
	CallTimeout time.Duration
}

// DefaultExecutorConfig returns a sensible default configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           3,
		Interval:              10 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
		CallTimeout:           10 * time.Second,
	}
}

var _ types.ScoringEngine = (*Executor)(nil)

// NewExecutor creates a new executor around engine.
func NewExecutor(engine types.ScoringEngine, metrics *MetricsCollector, logger *slog.Logger, config ExecutorConfig) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetricsCollector(nil)
	}
	e := &Executor{
		engine:  engine,
		metrics: metrics,
		logger:  logger,
		config:  config,
	}
	e.breaker = e.newBreaker()
	return e
}

func (e *Executor) newBreaker() *gobreaker.CircuitBreaker[any] {
	if !e.config.CircuitBreakerEnabled {
		return nil
	}

	engineID := e.engine.Metadata().ID
	settings := gobreaker.Settings{
		Name:        engineID,
		MaxRequests: e.config.MaxRequests,
		Interval:    e.config.Interval,
		Timeout:     e.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= e.config.FailureThreshold
		},
		// Rejected input is the caller's fault, not the engine's.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, sdk.ErrInvalidRequest) || errors.Is(err, sdk.ErrUnsupportedFormat) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Info("circuit breaker state changed",
				"engine_id", name,
				"from", from.String(),
				"to", to.String(),
			)
			e.metrics.RecordCircuitBreakerChange(name, to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

// execute runs an operation with timeout and circuit breaker protection.
func execute[T any](ctx context.Context, e *Executor, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	engineID := e.engine.Metadata().ID
	start := time.Now()

	if e.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.CallTimeout)
		defer cancel()
	}

	call := func() (any, error) {
		out, err := fn(ctx)
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, sdk.ErrTimeout) {
			err = sdk.NewEngineError(engineID, operation, errors.Join(sdk.ErrTimeout, err))
		}
		return out, err
	}

	e.mu.Lock()
	breaker := e.breaker
	e.mu.Unlock()

	var (
		result any
		err    error
	)
	if breaker != nil {
		result, err = breaker.Execute(call)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			e.metrics.RecordCircuitOpen(engineID, operation)
			return zero, sdk.NewEngineError(engineID, operation, sdk.ErrCircuitOpen)
		}
	} else {
		result, err = call()
	}

	e.metrics.RecordOperation(engineID, operation, time.Since(start), err)
	if err != nil {
		e.logger.Debug("engine operation failed", "engine_id", engineID, "operation", operation, "error", err)
		return zero, err
	}
	out, _ := result.(T)
	return out, nil
}

// Metadata returns the wrapped engine's metadata.
func (e *Executor) Metadata() sdk.EngineMetadata {
	return e.engine.Metadata()
}

// HealthCheck checks the health of the wrapped engine. An open breaker reports unhealthy.
func (e *Executor) HealthCheck(ctx context.Context) sdk.HealthStatus {
	if e.CircuitBreakerState() == gobreaker.StateOpen.String() {
		return sdk.HealthStatus{Healthy: false, Message: sdk.ErrCircuitOpen.Error(), CheckedAt: time.Now()}
	}
	return e.engine.HealthCheck(ctx)
}

// Shutdown shuts down the wrapped engine.
func (e *Executor) Shutdown(ctx context.Context) error {
	return e.engine.Shutdown(ctx)
}

// Analyze scores tasks through the wrapped engine.
func (e *Executor) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	return execute(ctx, e, "analyze", func(ctx context.Context) (*types.AnalyzeResponse, error) {
		return e.engine.Analyze(ctx, req)
	})
}

// Suggest requests suggestions through the wrapped engine.
func (e *Executor) Suggest(ctx context.Context, req types.AnalyzeRequest) (*types.SuggestResponse, error) {
	return execute(ctx, e, "suggest", func(ctx context.Context) (*types.SuggestResponse, error) {
		return e.engine.Suggest(ctx, req)
	})
}

// Export requests an export document through the wrapped engine.
func (e *Executor) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResponse, error) {
	return execute(ctx, e, "export", func(ctx context.Context) (*types.ExportResponse, error) {
		return e.engine.Export(ctx, req)
	})
}

// Feedback forwards feedback through the wrapped engine.
func (e *Executor) Feedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	return execute(ctx, e, "feedback", func(ctx context.Context) (*types.FeedbackResponse, error) {
		return e.engine.Feedback(ctx, req)
	})
}

// Metrics returns the metrics recorded for the wrapped engine, or nil before the first call.
func (e *Executor) Metrics() *EngineMetrics {
	return e.metrics.Get(e.engine.Metadata().ID)
}

// CircuitBreakerState returns the circuit breaker state.
func (e *Executor) CircuitBreakerState() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.breaker == nil {
		return "none"
	}
	return e.breaker.State().String()
}

// ResetCircuitBreaker replaces the breaker with a fresh closed one.
func (e *Executor) ResetCircuitBreaker() {
	e.mu.Lock()
	e.breaker = e.newBreaker()
	e.mu.Unlock()
	e.logger.Info("circuit breaker reset", "engine_id", e.engine.Metadata().ID)
}
