package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// ConsumerRegistry manages event consumers and dispatches events to them.
// Patterns follow AMQP topic rules: "*" matches one dot-separated word, "#" zero or more.
type ConsumerRegistry struct {
	registrations []registration
	mu            sync.RWMutex
	logger        *slog.Logger
}

// registration is one Register call. Consumers are tracked by position, so
// values that cannot be map keys, like ConsumerFunc, are safe to register.
type registration struct {
	consumer EventConsumer
	patterns []string
}

// NewConsumerRegistry creates a new consumer registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds a consumer for its declared event patterns.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	patterns := append([]string(nil), consumer.EventTypes()...)
	r.registrations = append(r.registrations, registration{consumer: consumer, patterns: patterns})
	for _, pattern := range patterns {
		r.logger.Debug("registered consumer for event pattern", "pattern", pattern)
	}
}

// GetConsumers returns every consumer whose pattern matches routingKey, each at
// most once per registration, in registration order.
func (r *ConsumerRegistry) GetConsumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []EventConsumer
	for _, reg := range r.registrations {
		for _, pattern := range reg.patterns {
			if MatchTopic(pattern, routingKey) {
				matched = append(matched, reg.consumer)
				break
			}
		}
	}
	return matched
}

// Patterns returns all registered patterns without duplicates.
func (r *ConsumerRegistry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var patterns []string
	for _, reg := range r.registrations {
		for _, p := range reg.patterns {
			if !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// Dispatch sends an event to all matching consumers. Every consumer runs even if
// an earlier one fails; the failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.GetConsumers(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ConsumerCount returns the number of pattern subscriptions across all consumers.
func (r *ConsumerRegistry) ConsumerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, reg := range r.registrations {
		count += len(reg.patterns)
	}
	return count
}

// MatchTopic reports whether routingKey matches an AMQP topic pattern.
func MatchTopic(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
