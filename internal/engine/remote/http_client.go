// Package remote implements the scoring contract against a scoring service reachable over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
)

// EngineID identifies the HTTP transport in errors and metrics.
const EngineID = "priora.scoring.http"

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 4 << 10

// Client is a scoring engine backed by a remote HTTP service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ types.ScoringEngine = (*Client)(nil)

// NewClient creates a client for the scoring service rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Metadata identifies the remote engine.
func (c *Client) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:        EngineID,
		Name:      "Remote Scoring Service",
		Version:   "1.0.0",
		Transport: "http",
	}
}

// HealthCheck probes GET /health.
func (c *Client) HealthCheck(ctx context.Context) sdk.HealthStatus {
	status := sdk.HealthStatus{CheckedAt: time.Now()}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		status.Message = err.Error()
		return status
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		status.Message = err.Error()
		return status
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	status.Healthy = resp.StatusCode < 300
	if !status.Healthy {
		status.Message = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return status
}

// Shutdown releases idle connections.
func (c *Client) Shutdown(context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Analyze posts the task set to /api/tasks/analyze/.
func (c *Client) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	query := url.Values{}
	if req.Strategy != "" {
		query.Set("strategy", req.Strategy)
	}
	var out types.AnalyzeResponse
	if err := c.postJSON(ctx, "analyze", "/api/tasks/analyze/", query, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, sdk.NewEngineError(EngineID, "analyze", err)
	}
	return &out, nil
}

// Suggest posts the task set to /api/tasks/suggest/.
func (c *Client) Suggest(ctx context.Context, req types.AnalyzeRequest) (*types.SuggestResponse, error) {
	query := url.Values{}
	if req.Strategy != "" {
		query.Set("strategy", req.Strategy)
	}
	var out types.SuggestResponse
	if err := c.postJSON(ctx, "suggest", "/api/tasks/suggest/", query, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export posts the task set to /api/tasks/export/ and returns the raw document.
func (c *Client) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResponse, error) {
	query := url.Values{}
	if req.Format != "" {
		query.Set("format", req.Format)
	}
	resp, err := c.post(ctx, "export", "/api/tasks/export/", query, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sdk.NewEngineError(EngineID, "export", fmt.Errorf("%w: %w", sdk.ErrNetwork, err))
	}
	return &types.ExportResponse{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// Feedback posts one feedback event to /api/tasks/feedback/.
func (c *Client) Feedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	var out types.FeedbackResponse
	if err := c.postJSON(ctx, "feedback", "/api/tasks/feedback/", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, query url.Values, body, out any) error {
	resp, err := c.post(ctx, op, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrMalformedResponse, err))
	}
	return nil
}

// post sends body as JSON and returns a 2xx response; the caller closes its body.
func (c *Client) post(ctx context.Context, op, path string, query url.Values, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrInvalidRequest, err))
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrNetwork, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrTimeout, err))
		}
		return nil, sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrNetwork, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("scoring service returned an error", "operation", op, "status", resp.StatusCode)
		return nil, &sdk.EngineError{
			EngineID:   EngineID,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
			Err:        sdk.ErrNetwork,
		}
	}
	return resp, nil
}
