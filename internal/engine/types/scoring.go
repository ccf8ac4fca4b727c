// Package types defines the request and response contract of scoring engines.
package types

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
)

// ScoringEngine computes priority scores for a task set.
// The computation is opaque to callers; only the request/response shapes are fixed.
type ScoringEngine interface {
	sdk.Engine

	// Analyze scores every submitted task.
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)

	// Suggest returns the top tasks with short reasons and alerts.
	Suggest(ctx context.Context, req AnalyzeRequest) (*SuggestResponse, error)

	// Export serializes the tasks into an opaque document.
	Export(ctx context.Context, req ExportRequest) (*ExportResponse, error)

	// Feedback forwards a helpful/done signal to the engine.
	Feedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error)
}

// TaskInput is a task as submitted for scoring. Score and explanation are never sent.
type TaskInput struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Importance     int      `json:"importance"`
	Dependencies   []string `json:"dependencies"`
}

// Weights is the four-factor weight vector on the wire.
type Weights struct {
	Urgency    float64 `json:"w_u"`
	Importance float64 `json:"w_i"`
	Effort     float64 `json:"w_e"`
	Dependency float64 `json:"w_d"`
}

// AnalyzeRequest is the scoring request. Weights may be nil to use the strategy preset.
type AnalyzeRequest struct {
	Tasks    []TaskInput `json:"tasks"`
	Weights  *Weights    `json:"weights"`
	Strategy string      `json:"strategy"`
}

// ScoredTask is one entry of a scoring response, matched back by id or title.
type ScoredTask struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Score       *float64 `json:"score"`
	Explanation []string `json:"explanation"`
}

// InputError reports a submitted task that was rejected by the engine.
type InputError struct {
	Index  int                 `json:"index"`
	Errors map[string][]string `json:"errors"`
}

// AnalyzeResponse is the scoring response.
type AnalyzeResponse struct {
	Tasks       []ScoredTask `json:"tasks"`
	Cycles      [][]string   `json:"cycles,omitempty"`
	InputErrors []InputError `json:"input_errors,omitempty"`
}

// Validate checks that every entry can be matched and carries a finite numeric score.
func (r *AnalyzeResponse) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty response", sdk.ErrMalformedResponse)
	}
	for i, t := range r.Tasks {
		if strings.TrimSpace(t.ID) == "" && strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("%w: entry %d has neither id nor title", sdk.ErrMalformedResponse, i)
		}
		if t.Score == nil {
			return fmt.Errorf("%w: entry %d has no numeric score", sdk.ErrMalformedResponse, i)
		}
		if math.IsNaN(*t.Score) || math.IsInf(*t.Score, 0) {
			return fmt.Errorf("%w: entry %d has a non-finite score", sdk.ErrMalformedResponse, i)
		}
	}
	return nil
}

// Suggestion is a recommended task with a one-line reason.
type Suggestion struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
	Why   string  `json:"why"`
}

// SuggestResponse lists the top suggestions with alerts.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Alerts      []string     `json:"alerts"`
	Cycles      [][]string   `json:"cycles"`
}

// ExportTask is a task row for export, including its last known score.
type ExportTask struct {
	TaskInput
	Status string   `json:"status,omitempty"`
	Score  *float64 `json:"score"`
}

// ExportRequest asks the engine to serialize tasks in a format.
type ExportRequest struct {
	Tasks  []ExportTask `json:"tasks"`
	Format string       `json:"format,omitempty"`
}

// ExportResponse is an opaque export document.
type ExportResponse struct {
	ContentType string
	Data        []byte
}

// FeedbackRequest carries one feedback event.
type FeedbackRequest struct {
	TaskID string `json:"task_id"`
	Label  string `json:"label"`
}

// FeedbackCounts holds the counters kept by the engine for a task.
type FeedbackCounts struct {
	Helpful int `json:"helpful"`
	Done    int `json:"done"`
}

// FeedbackResponse acknowledges a feedback event.
type FeedbackResponse struct {
	Message  string         `json:"message"`
	TaskID   string         `json:"task_id"`
	Feedback FeedbackCounts `json:"feedback"`
}
