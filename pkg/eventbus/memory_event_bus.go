package eventbus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/arewm/pipegraph/pkg/channels/gochannel"
)

// NewMemoryEventBus creates a Watermill event bus backed by an in-memory
// channel. Events do not survive a restart and are not shared between
// processes.
func NewMemoryEventBus(logger *slog.Logger) (EventBus, error) {
	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, err
	}

	return NewWatermillEventBus(pub, sub), nil
}
