package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// exportEnvelope carries an export document across the wire.
type exportEnvelope struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Server exposes a scoring engine as the Scorer gRPC service.
type Server struct {
	engine types.ScoringEngine
}

var _ ScorerServer = (*Server)(nil)

// NewServer creates a gRPC server for engine.
func NewServer(engine types.ScoringEngine) *Server {
	return &Server{engine: engine}
}

// Metadata returns the engine metadata.
func (s *Server) Metadata(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return encode(s.engine.Metadata())
}

// Health returns the engine health.
func (s *Server) Health(ctx context.Context, _ *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return encode(s.engine.HealthCheck(ctx))
}

// Analyze scores the submitted tasks.
func (s *Server) Analyze(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	var req types.AnalyzeRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.engine.Analyze(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

// Suggest returns suggestions for the submitted tasks.
func (s *Server) Suggest(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	var req types.AnalyzeRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.engine.Suggest(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

// Export renders the submitted tasks.
func (s *Server) Export(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	var req types.ExportRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.engine.Export(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(exportEnvelope{ContentType: resp.ContentType, Data: resp.Data})
}

// Feedback records one feedback event.
func (s *Server) Feedback(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	var req types.FeedbackRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.engine.Feedback(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

func decodeRequest(in *wrapperspb.BytesValue, v any) error {
	if err := json.Unmarshal(in.GetValue(), v); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func encode(v any) (*wrapperspb.BytesValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return wrapperspb.Bytes(data), nil
}

// toStatus maps engine errors onto gRPC codes so the host can restore the sentinel.
func toStatus(err error) error {
	switch {
	case errors.Is(err, sdk.ErrUnsupportedFormat):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, sdk.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, sdk.ErrTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
