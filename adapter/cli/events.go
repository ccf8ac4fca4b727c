package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/eventbus"
	"github.com/spf13/cobra"
)

// EventPrinter writes one line per consumed event.
type EventPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	patterns []string
}

// NewEventPrinter creates a printer for events matching patterns, or all priora events.
func NewEventPrinter(out io.Writer, patterns ...string) *EventPrinter {
	if len(patterns) == 0 {
		patterns = []string{"priora.#"}
	}
	return &EventPrinter{out: out, patterns: patterns}
}

// EventTypes returns the routing key patterns.
func (p *EventPrinter) EventTypes() []string {
	return p.patterns
}

// Handle prints the event.
func (p *EventPrinter) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.out, "%s %-28s %s %s\n",
		event.OccurredAt.Format("15:04:05"), event.RoutingKey, event.AggregateID, event.Payload)
	return err
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail [pattern...]",
	Short: "Print domain events published to RabbitMQ",
	Long: `Attach a temporary queue to the event exchange and print events as they arrive.

Patterns follow AMQP topic rules, for example priora.task.* or priora.#.
Requires PRIORA_RABBITMQ_URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Config == nil {
			return ErrNotInitialized
		}
		if app.Config.RabbitMQURL == "" {
			return errors.New("events tail requires a RabbitMQ url")
		}

		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       app.Config.RabbitMQURL,
			Transient: true,
			Logger:    app.Logger,
		}, eventbus.NewConsumerRegistry(app.Logger))
		if err != nil {
			return err
		}
		defer consumer.Close()

		consumer.RegisterConsumer(NewEventPrinter(cmd.OutOrStdout(), args...))
		err = consumer.Start(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}
