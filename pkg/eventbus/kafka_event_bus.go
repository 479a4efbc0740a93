package eventbus

import (
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/arewm/pipegraph/pkg/channels/kafka"
)

// NewKafkaEventBus creates a Watermill event bus backed by Kafka. The
// brokers string is a comma-separated list of broker addresses.
func NewKafkaEventBus(logger *slog.Logger, brokers, serviceName string) (EventBus, error) {
	pub, sub, err := kafka.CreateChannel(
		watermill.NewSlogLogger(logger),
		strings.Split(brokers, ","),
		serviceName,
	)
	if err != nil {
		return nil, err
	}

	return NewWatermillEventBus(pub, sub), nil
}
