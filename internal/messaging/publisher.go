package messaging

import (
	"context"

	"github.com/sendblocks/custom-indexer-example/internal/domain"
)

// Publisher defines the interface for publishing trigger messages to the message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishTrigger publishes a trigger message to the message broker
	PublishTrigger(ctx context.Context, msg domain.TriggerMessage) error
	// Close closes the connection
	Close()
}
