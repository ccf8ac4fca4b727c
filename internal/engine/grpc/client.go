package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EngineID identifies the plugin transport in errors and metrics when the plugin
// cannot report its own metadata.
const EngineID = "priora.scoring.plugin"

// Client is the host-side scoring engine that talks to a plugin over gRPC.
type Client struct {
	conn grpc.ClientConnInterface

	mu   sync.Mutex
	meta *sdk.EngineMetadata
}

var _ types.ScoringEngine = (*Client)(nil)

// NewClient creates a client on an established connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Metadata asks the plugin for its metadata once and caches the answer.
func (c *Client) Metadata() sdk.EngineMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meta != nil {
		return *c.meta
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var meta sdk.EngineMetadata
	if err := c.call(ctx, methodMetadata, struct{}{}, &meta); err != nil {
		return sdk.EngineMetadata{ID: EngineID, Name: "Scoring Plugin", Transport: "grpc-plugin"}
	}
	meta.Transport = "grpc-plugin"
	c.meta = &meta
	return meta
}

// HealthCheck asks the plugin for its health.
func (c *Client) HealthCheck(ctx context.Context) sdk.HealthStatus {
	var health sdk.HealthStatus
	if err := c.call(ctx, methodHealth, struct{}{}, &health); err != nil {
		return sdk.HealthStatus{Healthy: false, Message: err.Error(), CheckedAt: time.Now()}
	}
	return health
}

// Shutdown is a no-op; the plugin process is stopped by the loader.
func (c *Client) Shutdown(context.Context) error {
	return nil
}

// Analyze scores tasks in the plugin.
func (c *Client) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	var out types.AnalyzeResponse
	if err := c.call(ctx, methodAnalyze, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, sdk.NewEngineError(EngineID, "analyze", err)
	}
	return &out, nil
}

// Suggest requests suggestions from the plugin.
func (c *Client) Suggest(ctx context.Context, req types.AnalyzeRequest) (*types.SuggestResponse, error) {
	var out types.SuggestResponse
	if err := c.call(ctx, methodSuggest, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export requests an export document from the plugin.
func (c *Client) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResponse, error) {
	var out exportEnvelope
	if err := c.call(ctx, methodExport, req, &out); err != nil {
		return nil, err
	}
	return &types.ExportResponse{ContentType: out.ContentType, Data: out.Data}, nil
}

// Feedback forwards feedback to the plugin.
func (c *Client) Feedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	var out types.FeedbackResponse
	if err := c.call(ctx, methodFeedback, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method string, req, out any) error {
	op := method
	payload, err := json.Marshal(req)
	if err != nil {
		return sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrInvalidRequest, err))
	}

	reply := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, fullMethod(method), wrapperspb.Bytes(payload), reply); err != nil {
		return sdk.NewEngineError(EngineID, op, fromStatus(err))
	}
	if err := json.Unmarshal(reply.GetValue(), out); err != nil {
		return sdk.NewEngineError(EngineID, op, fmt.Errorf("%w: %w", sdk.ErrMalformedResponse, err))
	}
	return nil
}

// fromStatus restores the engine sentinel behind a gRPC status.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", sdk.ErrNetwork, err)
	}
	switch st.Code() {
	case codes.Unimplemented:
		return fmt.Errorf("%w: %s", sdk.ErrUnsupportedFormat, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", sdk.ErrInvalidRequest, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", sdk.ErrTimeout, st.Message())
	case codes.Canceled:
		return fmt.Errorf("%w: %s", context.Canceled, st.Message())
	default:
		return fmt.Errorf("%w: %s", sdk.ErrNetwork, st.Message())
	}
}
