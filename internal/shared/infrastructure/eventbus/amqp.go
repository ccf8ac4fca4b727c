package eventbus

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the durable topic exchange carrying Priora domain events.
const ExchangeName = "priora.domain.events"

// openTopic dials url, opens a channel and declares the topic exchange.
// On error nothing is left open.
func openTopic(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

// closeTopic closes the channel and then the connection.
func closeTopic(conn *amqp.Connection, ch *amqp.Channel) error {
	var chErr error
	if ch != nil {
		chErr = ch.Close()
	}
	if conn != nil && !conn.IsClosed() {
		if err := conn.Close(); err != nil {
			return err
		}
	}
	return chErr
}

// envelopeHeader is the part of an encoded event lifted into AMQP properties.
type envelopeHeader struct {
	EventID       string        `json:"event_id"`
	AggregateType string        `json:"aggregate_type"`
	Metadata      EventMetadata `json:"metadata"`
}

// peekHeader reads the envelope header; payloads that are not envelopes yield a zero header.
func peekHeader(payload []byte) envelopeHeader {
	var h envelopeHeader
	_ = json.Unmarshal(payload, &h)
	return h
}
