package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/graph"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

var (
	ErrNoTasks         = errors.New("no tasks to analyze")
	ErrStaleResponse   = errors.New("scoring response superseded by a newer request")
	ErrTicketAbandoned = errors.New("scoring request abandoned")
)

// ScoringOutcome describes how a scoring round trip ended.
type ScoringOutcome struct {
	Sequence    uint64
	Strategy    string
	Response    *types.AnalyzeResponse
	Applied     int
	Unmatched   int
	LocalCycles [][]string
	CyclesAgree bool
	Err         error
}

// Ticket tracks one in-flight scoring request.
type Ticket struct {
	Sequence uint64

	done      chan ScoringOutcome
	cancel    context.CancelFunc
	abandoned atomic.Bool
}

// Done delivers the outcome exactly once.
func (t *Ticket) Done() <-chan ScoringOutcome {
	return t.done
}

// Cancel abandons the request. A response arriving afterwards is discarded.
func (t *Ticket) Cancel() {
	t.abandoned.Store(true)
	t.cancel()
}

// Wait blocks until the outcome arrives or ctx ends; ending ctx abandons the request.
func (t *Ticket) Wait(ctx context.Context) (ScoringOutcome, error) {
	select {
	case out := <-t.done:
		return out, out.Err
	case <-ctx.Done():
		t.Cancel()
		return ScoringOutcome{Sequence: t.Sequence}, ctx.Err()
	}
}

// ScoringCoordinator sends task snapshots to a scoring engine and merges the answers.
// Only the newest request may merge; older answers are dropped on arrival.
type ScoringCoordinator struct {
	store   *TaskStore
	weights *WeightHolder
	engine  types.ScoringEngine
	logger  *slog.Logger

	seq     atomic.Uint64
	mergeMu sync.Mutex
}

// NewScoringCoordinator creates a coordinator.
func NewScoringCoordinator(store *TaskStore, holder *WeightHolder, engine types.ScoringEngine, logger *slog.Logger) *ScoringCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringCoordinator{
		store:   store,
		weights: holder,
		engine:  engine,
		logger:  logger,
	}
}

// Submit snapshots the store and the custom weights and starts a scoring round trip.
// It returns immediately; the ticket reports the outcome.
func (c *ScoringCoordinator) Submit(ctx context.Context, strategy string) (*Ticket, error) {
	snapshot := c.store.All()
	if len(snapshot) == 0 {
		return nil, ErrNoTasks
	}
	strategy = strings.TrimSpace(strategy)
	if strategy == "" {
		strategy = weights.StrategySmart
	}

	req := types.AnalyzeRequest{
		Tasks:    ToTaskInputs(snapshot),
		Weights:  ToWireWeights(c.weights.Custom()),
		Strategy: strategy,
	}
	localCycles := graph.FromTasks(snapshot).FindCycles()

	reqCtx, cancel := context.WithCancel(ctx)
	ticket := &Ticket{
		Sequence: c.seq.Add(1),
		done:     make(chan ScoringOutcome, 1),
		cancel:   cancel,
	}

	c.logger.Debug("scoring request submitted",
		"sequence", ticket.Sequence,
		"strategy", strategy,
		"tasks", len(snapshot),
		"custom_weights", req.Weights != nil,
	)

	go func() {
		defer cancel()
		out := c.run(reqCtx, ticket, req, localCycles)
		ticket.done <- out
	}()
	return ticket, nil
}

func (c *ScoringCoordinator) run(ctx context.Context, ticket *Ticket, req types.AnalyzeRequest, localCycles [][]string) ScoringOutcome {
	out := ScoringOutcome{
		Sequence:    ticket.Sequence,
		Strategy:    req.Strategy,
		LocalCycles: localCycles,
		CyclesAgree: true,
	}

	resp, err := c.engine.Analyze(ctx, req)
	if err != nil {
		out.Err = fmt.Errorf("analyze: %w", err)
		c.logger.Warn("scoring request failed", "sequence", ticket.Sequence, "error", err)
		return out
	}
	if err := resp.Validate(); err != nil {
		out.Err = err
		c.logger.Warn("scoring response rejected", "sequence", ticket.Sequence, "error", err)
		return out
	}
	out.Response = resp

	if resp.Cycles != nil && !types.CyclesAgree(resp.Cycles, localCycles) {
		out.CyclesAgree = false
		c.logger.Warn("scoring service and local analyzer disagree on cycles",
			"sequence", ticket.Sequence,
			"remote", resp.Cycles,
			"local", localCycles,
		)
	}

	c.mergeMu.Lock()
	defer c.mergeMu.Unlock()

	if ticket.abandoned.Load() {
		out.Err = ErrTicketAbandoned
		c.logger.Debug("discarding response of abandoned request", "sequence", ticket.Sequence)
		return out
	}
	if latest := c.seq.Load(); latest != ticket.Sequence {
		out.Err = ErrStaleResponse
		c.logger.Debug("discarding stale scoring response", "sequence", ticket.Sequence, "latest", latest)
		return out
	}

	out.Applied = c.store.MergeScores(resp.Tasks)
	out.Unmatched = len(resp.Tasks) - out.Applied
	c.logger.Info("scores merged",
		"sequence", ticket.Sequence,
		"applied", out.Applied,
		"unmatched", out.Unmatched,
	)
	return out
}

// Latest returns the sequence number of the newest request.
func (c *ScoringCoordinator) Latest() uint64 {
	return c.seq.Load()
}
