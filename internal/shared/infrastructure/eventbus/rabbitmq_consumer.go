package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultConsumerQueueName is the durable queue used when none is configured.
const DefaultConsumerQueueName = "priora.consumer"

// ErrConsumerRunning is returned by Start on a consumer that is already consuming.
var ErrConsumerRunning = errors.New("consumer already running")

// RabbitMQConsumerConfig configures the RabbitMQ consumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	// Transient declares an exclusive auto-delete queue, for short-lived listeners.
	Transient bool
	Logger    *slog.Logger
}

// RabbitMQConsumer delivers events from a queue bound to the topic exchange.
type RabbitMQConsumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	exchange string
	registry *ConsumerRegistry
	logger   *slog.Logger

	mu        sync.Mutex
	running   bool
	done      chan struct{}
	closeOnce sync.Once
}

var _ Consumer = (*RabbitMQConsumer)(nil)

// NewRabbitMQConsumer connects, declares the exchange and the queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}
	if registry == nil {
		registry = NewConsumerRegistry(cfg.Logger)
	}

	queueName := cfg.QueueName
	switch {
	case cfg.Transient:
		queueName = ""
	case queueName == "":
		queueName = DefaultConsumerQueueName
	}

	conn, ch, err := openTopic(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(queueName, !cfg.Transient, cfg.Transient, cfg.Transient, false, nil)
	if err != nil {
		_ = closeTopic(conn, ch)
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	cfg.Logger.Info("RabbitMQ consumer connected", "queue", q.Name, "exchange", cfg.Exchange)
	return &RabbitMQConsumer{
		conn:     conn,
		channel:  ch,
		queue:    q.Name,
		exchange: cfg.Exchange,
		registry: registry,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// RegisterConsumer registers consumer and binds the queue to each of its patterns.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pattern := range consumer.EventTypes() {
		if err := c.channel.QueueBind(c.queue, pattern, c.exchange, false, nil); err != nil {
			c.logger.Error("failed to bind queue", "queue", c.queue, "pattern", pattern, "error", err)
			continue
		}
		c.logger.Debug("bound queue", "queue", c.queue, "pattern", pattern)
	}
}

// Start consumes until ctx is done, Close is called or the broker closes the channel.
// It returns ctx.Err() on cancellation and nil after Close.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrConsumerRunning
	}
	c.running = true
	c.mu.Unlock()

	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	c.logger.Info("consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			c.settle(d, c.handle(ctx, d))
		}
	}
}

// handle decodes and dispatches one delivery. Undecodable bodies are poison and
// reported as nil so they are acked away.
func (c *RabbitMQConsumer) handle(ctx context.Context, d amqp.Delivery) error {
	event, err := Decode(d.RoutingKey, d.Body)
	if err != nil {
		c.logger.Error("dropping undecodable event", "message_id", d.MessageId, "error", err)
		return nil
	}
	if event.Metadata.CorrelationID == "" {
		event.Metadata.CorrelationID = d.CorrelationId
	}

	start := time.Now()
	err = c.registry.Dispatch(ctx, event)
	c.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	return err
}

// settle acks handled deliveries. A failed delivery is requeued once; a
// redelivered one that fails again is dropped.
func (c *RabbitMQConsumer) settle(d amqp.Delivery, handleErr error) {
	var err error
	switch {
	case handleErr == nil:
		err = d.Ack(false)
	case d.Redelivered:
		c.logger.Error("dropping event after retry", "routing_key", d.RoutingKey, "error", handleErr)
		err = d.Nack(false, false)
	default:
		c.logger.Warn("requeueing event", "routing_key", d.RoutingKey, "error", handleErr)
		err = d.Nack(false, true)
	}
	if err != nil {
		c.logger.Error("failed to settle delivery", "routing_key", d.RoutingKey, "error", err)
	}
}

// Close stops Start and closes the channel and connection.
func (c *RabbitMQConsumer) Close() error {
	c.closeOnce.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	if err := closeTopic(c.conn, c.channel); err != nil {
		return err
	}
	c.logger.Info("RabbitMQ consumer closed")
	return nil
}
