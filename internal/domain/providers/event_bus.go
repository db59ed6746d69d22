package providers

import (
	"context"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to directory events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DirectoryEvent) error

	// Subscribe subscribes to events on a channel until ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelDirectory carries reload and invalidation events between instances
const EventChannelDirectory = "directory:events"
