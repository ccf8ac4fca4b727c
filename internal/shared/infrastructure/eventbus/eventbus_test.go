package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/felixgeelhaar/priora/internal/shared/domain"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConsumer struct {
	patterns []string
	err      error

	mu     sync.Mutex
	events []*eventbus.ConsumedEvent
}

func (c *recordingConsumer) EventTypes() []string { return c.patterns }

func (c *recordingConsumer) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *recordingConsumer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

type taskCreated struct {
	domain.BaseEvent
	Title string `json:"title"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"priora.task.created", "priora.task.created", true},
		{"priora.task.created", "priora.task.updated", false},
		{"priora.task.*", "priora.task.scored", true},
		{"priora.*", "priora.task.scored", false},
		{"priora.#", "priora.task.scored", true},
		{"priora.#", "priora", true},
		{"#", "anything.at.all", true},
		{"priora.#.scored", "priora.task.scored", true},
		{"priora.#.scored", "priora.task.deleted", false},
		{"*.feedback.recorded", "priora.feedback.recorded", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, eventbus.MatchTopic(tt.pattern, tt.key))
		})
	}
}

func TestConsumerRegistry_Dispatch(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(quietLogger())
	all := &recordingConsumer{patterns: []string{"priora.#", "priora.task.*"}}
	tasks := &recordingConsumer{patterns: []string{"priora.task.created"}}
	failing := &recordingConsumer{patterns: []string{"priora.task.created"}, err: errors.New("boom")}
	registry.Register(all)
	registry.Register(tasks)
	registry.Register(failing)

	assert.Equal(t, 4, registry.ConsumerCount())

	err := registry.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "priora.task.created"})
	require.Error(t, err)

	assert.Equal(t, 1, all.count(), "a consumer matching twice is called once")
	assert.Equal(t, 1, tasks.count())
	assert.Equal(t, 1, failing.count())

	require.NoError(t, registry.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "priora.weights.replaced"}))
	assert.Equal(t, 2, all.count())
	assert.Equal(t, 1, tasks.count())
}

func TestConsumerRegistry_DispatchConsumerFunc(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(quietLogger())
	var calls []string
	registry.Register(eventbus.ConsumerFunc{
		Patterns: []string{"priora.#", "priora.task.*"},
		Fn: func(_ context.Context, event *eventbus.ConsumedEvent) error {
			calls = append(calls, "first:"+event.RoutingKey)
			return nil
		},
	})
	registry.Register(eventbus.ConsumerFunc{
		Patterns: []string{"priora.task.created"},
		Fn: func(_ context.Context, event *eventbus.ConsumedEvent) error {
			calls = append(calls, "second:"+event.RoutingKey)
			return nil
		},
	})

	require.NotPanics(t, func() {
		require.NoError(t, registry.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "priora.task.created"}))
	})
	assert.Equal(t, []string{"first:priora.task.created", "second:priora.task.created"}, calls)
	assert.Len(t, registry.GetConsumers("priora.weights.replaced"), 1)
	assert.ElementsMatch(t, []string{"priora.#", "priora.task.*", "priora.task.created"}, registry.Patterns())
}

func TestInProcessEventBus_PublishDomainEvent(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	consumer := &recordingConsumer{patterns: []string{"priora.task.*"}}
	bus.RegisterConsumer(consumer)

	event := &taskCreated{BaseEvent: domain.NewBaseEvent("task-1", "Task", "priora.task.created"), Title: "Fix login bug"}
	correlation := uuid.New()
	event.SetMetadata(domain.EventMetadata{CorrelationID: correlation})

	require.NoError(t, bus.PublishDomainEvent(context.Background(), event))
	require.Equal(t, 1, consumer.count())

	got := consumer.events[0]
	assert.Equal(t, event.EventID(), got.EventID)
	assert.Equal(t, "task-1", got.AggregateID)
	assert.Equal(t, "Task", got.AggregateType)
	assert.Equal(t, correlation.String(), got.Metadata.CorrelationID)

	var payload struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "Fix login bug", payload.Title)
}

func TestInProcessEventBus_BestEffort(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	bus.RegisterConsumer(&recordingConsumer{patterns: []string{"#"}, err: errors.New("boom")})

	assert.NoError(t, bus.Publish(context.Background(), "priora.task.created", []byte("not json")))
	assert.NoError(t, bus.Publish(context.Background(), "priora.task.created", []byte(`{"event_id":"`+uuid.NewString()+`"}`)))
	assert.NoError(t, bus.Close())
}

func TestInProcessEventBus_NestedPublish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	followUp := &recordingConsumer{patterns: []string{"priora.dashboard.refreshed"}}
	bus.RegisterConsumer(followUp)
	bus.RegisterConsumer(eventbus.ConsumerFunc{
		Patterns: []string{"priora.task.*"},
		Fn: func(ctx context.Context, event *eventbus.ConsumedEvent) error {
			next := &taskCreated{BaseEvent: domain.NewBaseEvent(event.AggregateID, "Dashboard", "priora.dashboard.refreshed")}
			return bus.PublishDomainEvent(ctx, next)
		},
	})

	event := &taskCreated{BaseEvent: domain.NewBaseEvent("task-1", "Task", "priora.task.created")}
	require.NoError(t, bus.PublishDomainEvent(context.Background(), event))
	require.Equal(t, 1, followUp.count())
	assert.Equal(t, "task-1", followUp.events[0].AggregateID)
}

func TestInProcessEventBus_Closed(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), "priora.task.created", []byte(`{}`))
	assert.ErrorIs(t, err, eventbus.ErrBusClosed)
}

func TestDecode(t *testing.T) {
	event, err := eventbus.Decode("priora.task.deleted", []byte(`{"aggregate_id":"task-9"}`))
	require.NoError(t, err)
	assert.Equal(t, "priora.task.deleted", event.RoutingKey)
	assert.Equal(t, "task-9", event.AggregateID)

	_, err = eventbus.Decode("priora.task.deleted", []byte("{"))
	assert.ErrorContains(t, err, "decode priora.task.deleted envelope")
}

type recordingPublisher struct {
	err    error
	keys   []string
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestFanoutPublisher(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	local := &recordingPublisher{}
	fanout := eventbus.NewFanoutPublisher(failing, nil, local)

	err := fanout.Publish(context.Background(), "priora.task.created", []byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, []string{"priora.task.created"}, local.keys, "a failing publisher does not block the rest")

	require.NoError(t, fanout.Close())
	assert.True(t, failing.closed)
	assert.True(t, local.closed)
}
