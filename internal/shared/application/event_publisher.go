package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

// EventPublisher delivers encoded domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

// EventEncoder turns a domain event into a wire payload.
type EventEncoder func(event domain.DomainEvent) ([]byte, error)

// EventDispatcher stamps metadata on drained domain events and publishes them.
// Publishing happens after state is saved, so a failure is logged and returned
// without undoing the command.
type EventDispatcher struct {
	publisher EventPublisher
	encode    EventEncoder
	logger    *slog.Logger
}

// NewEventDispatcher creates a dispatcher. A nil publisher drops events.
func NewEventDispatcher(publisher EventPublisher, encode EventEncoder, logger *slog.Logger) *EventDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventDispatcher{publisher: publisher, encode: encode, logger: logger}
}

// Dispatch publishes events in order.
func (d *EventDispatcher) Dispatch(ctx context.Context, events []domain.DomainEvent) error {
	if d == nil || d.publisher == nil || len(events) == 0 {
		return nil
	}
	ApplyEventMetadata(events, NewEventMetadata(ctx))

	var errs []error
	for _, event := range events {
		payload, err := d.encode(event)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := d.publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
			d.logger.Warn("failed to publish domain event",
				"routing_key", event.RoutingKey(),
				"event_id", event.EventID(),
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
