package cmd

import (
	"fmt"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/eventbus"
)

// NewEventBus creates an event bus for the given provider. The brokers
// string is a comma-separated address list and is only used by kafka.
func NewEventBus(provider string, logger *slog.Logger, brokers, serviceName string) (eventbus.EventBus, error) {
	switch provider {
	case "kafka":
		bus, err := eventbus.NewKafkaEventBus(logger, brokers, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}

		return bus, nil
	case "memory":
		return eventbus.NewMemoryEventBus(logger)
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
