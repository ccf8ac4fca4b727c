package application

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/shared/domain"
	"github.com/felixgeelhaar/priora/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// WithCorrelationID returns a context carrying id as the correlation id of every event
// produced while handling the request. Log records written with ctx carry the same id.
func WithCorrelationID(ctx context.Context, id uuid.UUID) context.Context {
	return observability.WithCorrelationID(ctx, id.String())
}

// CorrelationID returns the correlation id carried by ctx, if any.
func CorrelationID(ctx context.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	return id, err == nil && id != uuid.Nil
}

// NewEventMetadata creates command-scoped metadata for domain events.
// The correlation id is taken from ctx when present.
func NewEventMetadata(ctx context.Context) domain.EventMetadata {
	correlation, ok := CorrelationID(ctx)
	if !ok {
		correlation = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlation,
		CausationID:   uuid.New(),
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
