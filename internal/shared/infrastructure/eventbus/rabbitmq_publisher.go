package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisherConfig configures the RabbitMQ publisher.
type RabbitMQPublisherConfig struct {
	URL      string
	Exchange string
	// AppID tags every message with the publishing process.
	AppID  string
	Logger *slog.Logger
}

// RabbitMQPublisher publishes persistent events to the topic exchange.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	appID    string
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	closed bool
}

var _ Publisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher connects to RabbitMQ and declares the exchange.
func NewRabbitMQPublisher(cfg RabbitMQPublisherConfig) (*RabbitMQPublisher, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}
	if cfg.AppID == "" {
		cfg.AppID = "priora"
	}

	conn, ch, err := openTopic(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("RabbitMQ publisher connected", "exchange", cfg.Exchange)

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		appID:    cfg.AppID,
		logger:   cfg.Logger,
		now:      time.Now,
	}, nil
}

// Publish sends payload with the event id and correlation id copied into the
// message properties, so brokers and tools can trace it without decoding the body.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("publish %s: publisher closed", routingKey)
	}

	msg := publishing(peekHeader(payload), p.appID, p.now(), payload)
	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.logger.Error("failed to publish event", "routing_key", routingKey, "error", err)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Debug("event published", "routing_key", routingKey, "message_id", msg.MessageId, "size", len(payload))
	return nil
}

func publishing(h envelopeHeader, appID string, now time.Time, payload []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		AppId:         appID,
		MessageId:     h.EventID,
		CorrelationId: h.Metadata.CorrelationID,
		Type:          h.AggregateType,
		Timestamp:     now,
		Body:          payload,
	}
}

// Close closes the channel and connection. Closing twice is a no-op.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if err := closeTopic(p.conn, p.channel); err != nil {
		return err
	}
	p.logger.Info("RabbitMQ publisher closed")
	return nil
}
