package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sendblocks/custom-indexer-example/internal/kv"
	"github.com/sendblocks/custom-indexer-example/internal/ledger"
)

// TokenResponse represents one token ledger record
type TokenResponse struct {
	TokenID       string  `json:"token_id"`
	Owner         string  `json:"owner"`
	PreviousOwner *string `json:"previous_owner"`
	Approved      *string `json:"approved"`

	// UpdatedAt is the store write time, included on listings only
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TokenListResponse represents a paginated list of token ledger records
type TokenListResponse struct {
	Tokens []TokenResponse `json:"items"`
	Offset *int            `json:"offset,omitempty"`
	Total  int64           `json:"total"`
}

// MapRecordToDTO maps a ledger.TokenRecord to TokenResponse
func MapRecordToDTO(record *ledger.TokenRecord) *TokenResponse {
	return &TokenResponse{
		TokenID:       record.TokenID,
		Owner:         record.Owner,
		PreviousOwner: record.PreviousOwner,
		Approved:      record.Approved,
	}
}

// MapEntriesToList maps stored ledger entries to a paginated token list
func MapEntriesToList(entries []kv.Entry, offset int, total int64) (*TokenListResponse, error) {
	tokens := make([]TokenResponse, 0, len(entries))
	for _, entry := range entries {
		var record ledger.TokenRecord
		if err := json.Unmarshal(entry.Value, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal token record %q: %w", entry.Key, err)
		}

		token := MapRecordToDTO(&record)
		updatedAt := entry.UpdatedAt
		token.UpdatedAt = &updatedAt
		tokens = append(tokens, *token)
	}

	return &TokenListResponse{
		Tokens: tokens,
		Offset: &offset,
		Total:  total,
	}, nil
}
