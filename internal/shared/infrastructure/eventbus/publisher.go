package eventbus

import (
	"context"
	"errors"
)

// Publisher publishes encoded domain events under a routing key.
type Publisher interface {
	// Publish sends an encoded envelope.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close releases the publisher.
	Close() error
}

// FanoutPublisher sends every event to all of its publishers.
type FanoutPublisher struct {
	publishers []Publisher
}

var _ Publisher = (*FanoutPublisher)(nil)

// NewFanoutPublisher creates a publisher writing to each non-nil publisher in order.
func NewFanoutPublisher(publishers ...Publisher) *FanoutPublisher {
	f := &FanoutPublisher{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish publishes to every publisher; one failing does not stop the others.
func (f *FanoutPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher.
func (f *FanoutPublisher) Close() error {
	var errs []error
	for _, p := range f.publishers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
