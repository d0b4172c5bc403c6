package dto

import (
	"errors"

	"github.com/sendblocks/custom-indexer-example/internal/domain"
)

// ReplayRequest represents the request body for re-injecting a raw log
// envelope onto the trigger subject
type ReplayRequest struct {
	Trigger string        `json:"trigger"`
	Log     domain.RawLog `json:"log"`
}

// Validate validates the request body
func (r *ReplayRequest) Validate() error {
	// Validate: trigger name must be provided (it determines the publish subject)
	if r.Trigger == "" {
		return errors.New("trigger is required")
	}

	// Validate: the log must be a structurally sound raw log envelope
	if !r.Log.Valid() {
		return errors.New("log is not a valid raw log envelope")
	}

	return nil
}

// ReplayResponse acknowledges an accepted replay request
type ReplayResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}
