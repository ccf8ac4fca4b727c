package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

// ErrBusClosed is returned when publishing on a closed in-process bus.
var ErrBusClosed = errors.New("event bus closed")

// InProcessEventBus delivers events synchronously to consumers in the same
// process. Consumers may publish from inside Handle.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	closed   atomic.Bool
}

var _ Publisher = (*InProcessEventBus)(nil)

// NewInProcessEventBus creates an in-process bus with an empty registry.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{registry: NewConsumerRegistry(logger), logger: logger}
}

// RegisterConsumer subscribes consumer to its patterns.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes payload and hands it to the matching consumers. Decode and
// consumer failures are logged and swallowed; only a closed bus is an error.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	event, err := Decode(routingKey, payload)
	if err != nil {
		b.logger.Error("skipping local event", "error", err)
		return nil
	}
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Warn("local event consumers failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"error", err,
		)
	}
	return nil
}

// PublishDomainEvent encodes event and publishes it under its routing key.
func (b *InProcessEventBus) PublishDomainEvent(ctx context.Context, event domain.DomainEvent) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	return b.Publish(ctx, event.RoutingKey(), payload)
}

// Close stops the bus. Later publishes fail with ErrBusClosed.
func (b *InProcessEventBus) Close() error {
	b.closed.Store(true)
	return nil
}
