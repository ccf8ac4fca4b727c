package app

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/priora/pkg/observability"
)

// EventLogger records every domain event at debug level and counts it.
type EventLogger struct {
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewEventLogger creates a consumer for all priora events.
func NewEventLogger(logger *slog.Logger, metrics observability.Metrics) *EventLogger {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &EventLogger{logger: logger, metrics: metrics}
}

// EventTypes subscribes to every routing key under priora.
func (l *EventLogger) EventTypes() []string {
	return []string{"priora.#"}
}

// Handle logs the event envelope.
func (l *EventLogger) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	l.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))
	l.logger.DebugContext(ctx, "domain event",
		"routing_key", event.RoutingKey,
		"aggregate_id", event.AggregateID,
		"event_id", event.EventID,
		"event_correlation_id", event.Metadata.CorrelationID,
	)
	return nil
}
