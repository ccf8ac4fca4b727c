package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConsumedEvent is the wire envelope of a domain event. Payload holds the
// event's own JSON encoding.
type ConsumedEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata carries correlation ids across the wire as strings.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	CausationID   string `json:"causation_id,omitempty"`
}

// EventConsumer receives events whose routing key matches one of its patterns,
// e.g. "priora.task.created", "priora.feedback.*" or "priora.#".
type EventConsumer interface {
	EventTypes() []string
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumerFunc adapts a function to EventConsumer.
type ConsumerFunc struct {
	Patterns []string
	Fn       func(ctx context.Context, event *ConsumedEvent) error
}

// EventTypes returns f.Patterns.
func (f ConsumerFunc) EventTypes() []string { return f.Patterns }

// Handle calls f.Fn.
func (f ConsumerFunc) Handle(ctx context.Context, event *ConsumedEvent) error {
	return f.Fn(ctx, event)
}

// Consumer pulls events from a broker and hands them to registered consumers.
// Start blocks until ctx is done or Close is called.
type Consumer interface {
	Start(ctx context.Context) error
	RegisterConsumer(consumer EventConsumer)
	Close() error
}
