package observability

import (
	"context"
	"log/slog"
	"time"
)

// Span times one operation and reports it once on End.
type Span struct {
	ctx     context.Context
	name    string
	start   time.Time
	logger  *slog.Logger
	metrics Metrics
	tags    []Tag
}

// StartSpan starts timing name. Either logger or metrics may be nil.
// The returned context carries name as its operation.
func StartSpan(ctx context.Context, name string, logger *slog.Logger, metrics Metrics, tags ...Tag) (context.Context, *Span) {
	ctx = WithOperation(ctx, name)
	return ctx, &Span{ctx: ctx, name: name, start: time.Now(), logger: logger, metrics: metrics, tags: tags}
}

// End records the duration under MetricOperationDuration and counts the call,
// and the failure when err is non-nil. Extra tags apply to this report only.
func (s *Span) End(err error, tags ...Tag) time.Duration {
	d := time.Since(s.start)

	if s.metrics != nil {
		all := make([]Tag, 0, len(s.tags)+len(tags)+1)
		all = append(append(append(all, s.tags...), tags...), T(OperationKey, s.name))
		s.metrics.Timing(MetricOperationDuration, d, all...)
		s.metrics.Counter(MetricOperationTotal, 1, all...)
		if err != nil {
			s.metrics.Counter(MetricOperationErrors, 1, all...)
		}
	}

	if s.logger != nil {
		if err != nil {
			s.logger.WarnContext(s.ctx, "operation failed", DurationKey, d.Milliseconds(), ErrorKey, err.Error())
		} else {
			s.logger.DebugContext(s.ctx, "operation completed", DurationKey, d.Milliseconds())
		}
	}
	return d
}
