package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by logs and metrics.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
	StatusKey        = "status"
)

// Scope is the request-scoped identity carried through a context and stamped
// onto every log record.
type Scope struct {
	CorrelationID string
	RequestID     string
	Operation     string
}

type scopeKey struct{}

// WithScope stores s in ctx, replacing any previous scope.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope stored in ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// WithCorrelationID sets the correlation id; an empty id generates one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	s := ScopeFrom(ctx)
	s.CorrelationID = orNewID(id)
	return WithScope(ctx, s)
}

// WithRequestID sets the request id; an empty id generates one.
func WithRequestID(ctx context.Context, id string) context.Context {
	s := ScopeFrom(ctx)
	s.RequestID = orNewID(id)
	return WithScope(ctx, s)
}

// WithOperation names the operation in progress.
func WithOperation(ctx context.Context, operation string) context.Context {
	s := ScopeFrom(ctx)
	s.Operation = operation
	return WithScope(ctx, s)
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string { return ScopeFrom(ctx).CorrelationID }

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string { return ScopeFrom(ctx).RequestID }

// NewRequestContext starts a request: a fresh request id and the given
// correlation id, or a new one when parentCorrelationID is empty.
func NewRequestContext(ctx context.Context, parentCorrelationID string) context.Context {
	s := ScopeFrom(ctx)
	s.RequestID = uuid.NewString()
	s.CorrelationID = orNewID(parentCorrelationID)
	return WithScope(ctx, s)
}
