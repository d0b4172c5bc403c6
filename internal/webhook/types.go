package webhook

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sendblocks/custom-indexer-example/internal/ledger"
)

// Event type constants
const (
	// EventTypeLedgerUpdated is fired after a token ledger record has been written
	// (a transfer or approval event was applied to the store)
	EventTypeLedgerUpdated = "token_ledger.updated"
)

// Delivery header names
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderEventID   = "X-Webhook-Event-ID"
	HeaderEventType = "X-Webhook-Event-Type"
	HeaderTimestamp = "X-Webhook-Timestamp"
)

// Event represents a webhook event to be delivered to clients
type Event struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the type of event (e.g., "token_ledger.updated")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data contains the applied ledger change
	Data ledger.Change `json:"data"`
}

// NewLedgerUpdatedEvent wraps an applied ledger change in a delivery event
func NewLedgerUpdatedEvent(change ledger.Change, now time.Time) Event {
	return Event{
		EventID:   ulid.MustNewDefault(now).String(),
		EventType: EventTypeLedgerUpdated,
		Timestamp: now,
		Data:      change,
	}
}
