package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/priora/internal/shared/domain"
	"github.com/google/uuid"
)

// Encode wraps a domain event in the wire envelope understood by every consumer.
func Encode(event domain.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.RoutingKey(), err)
	}

	meta := event.Metadata()
	envelope := ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}
	if meta.CorrelationID != uuid.Nil {
		envelope.Metadata.CorrelationID = meta.CorrelationID.String()
	}
	if meta.CausationID != uuid.Nil {
		envelope.Metadata.CausationID = meta.CausationID.String()
	}
	return json.Marshal(envelope)
}

// Decode reads an envelope produced by Encode. routingKey fills the key when
// the envelope omits it.
func Decode(routingKey string, data []byte) (*ConsumedEvent, error) {
	event := &ConsumedEvent{}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", routingKey, err)
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return event, nil
}
