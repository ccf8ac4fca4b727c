package builtin

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/graph"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
)

const (
	// EngineID identifies the in-process scoring engine.
	EngineID = "priora.scoring.default"

	urgencyHorizonDays  = 14.0
	effortHorizonHours  = 8.0
	unknownEffortFactor = 0.5
	dependentsForMax    = 3.0
	suggestionCount     = 3
	highScoreThreshold  = 80.0
	highScoreAlertCount = 3
)

// DefaultScoringEngine scores tasks with a weighted sum of urgency, importance,
// effort and dependency factors, scaled to 0..100.
type DefaultScoringEngine struct {
	now func() time.Time

	mu       sync.Mutex
	feedback map[string]*types.FeedbackCounts
}

// Option configures the engine.
type Option func(*DefaultScoringEngine)

// WithClock overrides the time source used for urgency.
func WithClock(now func() time.Time) Option {
	return func(e *DefaultScoringEngine) { e.now = now }
}

// NewDefaultScoringEngine creates a new default scoring engine.
func NewDefaultScoringEngine(opts ...Option) *DefaultScoringEngine {
	e := &DefaultScoringEngine{
		now:      time.Now,
		feedback: make(map[string]*types.FeedbackCounts),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metadata returns engine metadata.
func (e *DefaultScoringEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:        EngineID,
		Name:      "Default Scoring Engine",
		Version:   "1.0.0",
		Transport: "inprocess",
	}
}

// HealthCheck returns the engine health status.
func (e *DefaultScoringEngine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{
		Healthy:   true,
		Message:   "default scoring engine is healthy",
		CheckedAt: e.now().UTC(),
	}
}

// Shutdown gracefully shuts down the engine.
func (e *DefaultScoringEngine) Shutdown(ctx context.Context) error {
	return nil
}

// factors holds the normalized 0..1 inputs of a task score.
type factors struct {
	urgency    float64
	importance float64
	effort     float64
	dependency float64
}

// reason is one explanation line with the weighted contribution that produced it.
type reason struct {
	text   string
	weight float64
}

// Analyze scores every valid task. Rejected tasks are reported in InputErrors and omitted.
func (e *DefaultScoringEngine) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := resolveWeights(req.Strategy, req.Weights)
	valid, inputErrors := validateTasks(req.Tasks)

	nodes := make([]graph.Node, 0, len(valid))
	for _, t := range valid {
		nodes = append(nodes, graph.Node{ID: taskKey(t), Dependencies: t.Dependencies})
	}
	g := graph.New(nodes)
	today := dateOnly(e.now())

	scored := make([]types.ScoredTask, 0, len(valid))
	for _, t := range valid {
		f, reasons := e.factorsFor(t, today, len(g.Dependents(taskKey(t))))
		total := w.Urgency*f.urgency + w.Importance*f.importance + w.Effort*f.effort + w.Dependency*f.dependency
		score := math.Round(total*100*100) / 100

		for i := range reasons {
			reasons[i].weight *= weightFor(w, reasons[i].text)
		}
		sort.SliceStable(reasons, func(i, j int) bool { return reasons[i].weight > reasons[j].weight })

		explanation := make([]string, 0, len(reasons))
		for _, r := range reasons {
			explanation = append(explanation, r.text)
		}
		if len(explanation) == 0 {
			explanation = append(explanation, "No strong signals")
		}

		scored = append(scored, types.ScoredTask{
			ID:          t.ID,
			Title:       t.Title,
			Score:       &score,
			Explanation: explanation,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return *scored[i].Score > *scored[j].Score })

	return &types.AnalyzeResponse{
		Tasks:       scored,
		Cycles:      g.FindCycles(),
		InputErrors: inputErrors,
	}, nil
}

// Suggest returns the three highest-scoring tasks with alerts about overdue work and score crowding.
func (e *DefaultScoringEngine) Suggest(ctx context.Context, req types.AnalyzeRequest) (*types.SuggestResponse, error) {
	analysis, err := e.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	suggestions := make([]types.Suggestion, 0, suggestionCount)
	for i, t := range analysis.Tasks {
		if i == suggestionCount {
			break
		}
		why := t.Explanation
		if len(why) > 2 {
			why = why[:2]
		}
		suggestions = append(suggestions, types.Suggestion{
			ID:    t.ID,
			Title: t.Title,
			Score: *t.Score,
			Why:   strings.Join(why, "; "),
		})
	}

	overdue, high := 0, 0
	for _, t := range analysis.Tasks {
		if strings.Contains(strings.Join(t.Explanation, " "), "Past due") {
			overdue++
		}
		if *t.Score >= highScoreThreshold {
			high++
		}
	}

	alerts := []string{}
	if overdue >= 1 {
		alerts = append(alerts, fmt.Sprintf("%d overdue tasks found", overdue))
	}
	if high >= highScoreAlertCount {
		alerts = append(alerts, "Multiple high priority tasks! Consider reweighting.")
	}

	cycles := analysis.Cycles
	if cycles == nil {
		cycles = [][]string{}
	}

	return &types.SuggestResponse{
		Suggestions: suggestions,
		Alerts:      alerts,
		Cycles:      cycles,
	}, nil
}

// Feedback counts a helpful/done signal per task.
func (e *DefaultScoringEngine) Feedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	taskID := strings.TrimSpace(req.TaskID)
	label := strings.ToLower(strings.TrimSpace(req.Label))
	if taskID == "" || label == "" {
		return nil, fmt.Errorf("%w: task_id and label are required", sdk.ErrInvalidRequest)
	}
	if label != "helpful" && label != "done" {
		return nil, fmt.Errorf("%w: invalid label %q", sdk.ErrInvalidRequest, req.Label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	counts, ok := e.feedback[taskID]
	if !ok {
		counts = &types.FeedbackCounts{}
		e.feedback[taskID] = counts
	}
	if label == "helpful" {
		counts.Helpful++
	} else {
		counts.Done++
	}

	return &types.FeedbackResponse{
		Message:  "Feedback recorded",
		TaskID:   taskID,
		Feedback: *counts,
	}, nil
}

func (e *DefaultScoringEngine) factorsFor(t types.TaskInput, today time.Time, dependents int) (factors, []reason) {
	var f factors
	var reasons []reason

	if due, ok := parseDue(t.DueDate); ok {
		days := int(math.Round(due.Sub(today).Hours() / 24))
		switch {
		case days < 0:
			f.urgency = 1
			reasons = append(reasons, reason{text: fmt.Sprintf("Past due by %d %s", -days, plural(-days, "day")), weight: 1})
		case days == 0:
			f.urgency = 1
			reasons = append(reasons, reason{text: "Due today", weight: 1})
		default:
			f.urgency = clamp01((urgencyHorizonDays - float64(days)) / urgencyHorizonDays)
			if days <= 3 {
				reasons = append(reasons, reason{text: fmt.Sprintf("Due in %d %s", days, plural(days, "day")), weight: f.urgency})
			}
		}
	}

	importance := t.Importance
	if importance == 0 {
		importance = 5
	}
	f.importance = float64(importance) / 10
	if importance >= 7 {
		reasons = append(reasons, reason{text: fmt.Sprintf("High importance (%d/10)", importance), weight: f.importance})
	}

	if t.EstimatedHours == nil || *t.EstimatedHours < 0 {
		f.effort = unknownEffortFactor
	} else {
		hours := *t.EstimatedHours
		f.effort = clamp01(1 - hours/effortHorizonHours)
		switch {
		case hours <= 1:
			reasons = append(reasons, reason{text: fmt.Sprintf("Quick win (%gh)", hours), weight: f.effort})
		case hours >= effortHorizonHours:
			reasons = append(reasons, reason{text: fmt.Sprintf("Large effort (%gh)", hours), weight: 0})
		}
	}

	if dependents > 0 {
		f.dependency = math.Min(float64(dependents)/dependentsForMax, 1)
		reasons = append(reasons, reason{text: fmt.Sprintf("Blocks %d %s", dependents, plural(dependents, "task")), weight: f.dependency})
	}

	return f, reasons
}

// weightFor maps an explanation line back to the factor weight that produced it.
func weightFor(w weights.Vector, text string) float64 {
	switch {
	case strings.HasPrefix(text, "Past due"), strings.HasPrefix(text, "Due "):
		return w.Urgency
	case strings.HasPrefix(text, "High importance"):
		return w.Importance
	case strings.HasPrefix(text, "Quick win"), strings.HasPrefix(text, "Large effort"):
		return w.Effort
	case strings.HasPrefix(text, "Blocks"):
		return w.Dependency
	default:
		return 0
	}
}

// resolveWeights starts from the strategy preset and replaces it with custom weights when given.
func resolveWeights(strategy string, custom *types.Weights) weights.Vector {
	w := weights.PresetOrDefault(strategy)
	if custom != nil {
		w = weights.Vector{
			Urgency:    custom.Urgency,
			Importance: custom.Importance,
			Effort:     custom.Effort,
			Dependency: custom.Dependency,
		}
	}
	return w.Normalize()
}

func validateTasks(tasks []types.TaskInput) ([]types.TaskInput, []types.InputError) {
	valid := make([]types.TaskInput, 0, len(tasks))
	var inputErrors []types.InputError
	for i, t := range tasks {
		errs := map[string][]string{}
		if strings.TrimSpace(t.Title) == "" {
			errs["title"] = append(errs["title"], "This field is required.")
		}
		if t.Importance != 0 && (t.Importance < 1 || t.Importance > 10) {
			errs["importance"] = append(errs["importance"], "Ensure this value is between 1 and 10.")
		}
		if len(errs) > 0 {
			inputErrors = append(inputErrors, types.InputError{Index: i, Errors: errs})
			continue
		}
		valid = append(valid, t)
	}
	return valid, inputErrors
}

// taskKey identifies a task inside one request, falling back to its title.
func taskKey(t types.TaskInput) string {
	if t.ID != "" {
		return t.ID
	}
	return t.Title
}

func parseDue(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return dateOnly(t.UTC()), true
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// clamp01 clamps a value between 0 and 1.
func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// Ensure DefaultScoringEngine implements types.ScoringEngine
var _ types.ScoringEngine = (*DefaultScoringEngine)(nil)
