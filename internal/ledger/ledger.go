package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/kv"
)

// recordKeyPrefix prefixes every ledger key; the full key is the prefix
// concatenated with the canonical hex token id.
const recordKeyPrefix = "token:"

// RecordKey derives the store key for a canonical token id
func RecordKey(tokenID string) string {
	return recordKeyPrefix + tokenID
}

// RecordKeyPrefix returns the prefix shared by all ledger keys, for listing
func RecordKeyPrefix() string {
	return recordKeyPrefix
}

// TokenRecord is the ledger's state for one token: current holder, the
// address it last moved from, and the per-token approved operator.
// PreviousOwner is nil when the record was created without a transfer event;
// Approved is nil when no operator is approved.
type TokenRecord struct {
	TokenID       string  `json:"token_id"`
	Owner         string  `json:"owner"`
	PreviousOwner *string `json:"previous_owner"`
	Approved      *string `json:"approved"`
}

// Change describes one applied ledger update
type Change struct {
	Event  string      `json:"event"`
	Record TokenRecord `json:"record"`
}

// Updater maintains one TokenRecord per token, reacting to transfer and
// approval events. It holds no state of its own: every operation is a single
// load-modify-store round trip against the injected store, and conflict
// resolution between concurrent events is left to the store's per-key
// last-write-wins guarantee.
type Updater struct {
	store     kv.Store
	namespace string
}

// NewUpdater creates an updater writing to namespace in store
func NewUpdater(store kv.Store, namespace string) *Updater {
	return &Updater{store: store, namespace: namespace}
}

// ApplyTransfer records that tokenID moved from one address to another.
// The record's owner and previous owner are overwritten and any per-token
// approval is cleared, mirroring ERC-721 semantics: approvals do not survive
// a transfer. fromAddress may be the zero address (mint).
func (u *Updater) ApplyTransfer(ctx context.Context, fromAddress, toAddress string, tokenID *big.Int) (*TokenRecord, error) {
	from, err := domain.NormalizeAddress(fromAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize from address: %w", err)
	}
	to, err := domain.NormalizeAddress(toAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize to address: %w", err)
	}
	canonicalID, err := domain.CanonicalTokenID(tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize token id: %w", err)
	}

	record, err := u.Record(ctx, canonicalID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &TokenRecord{TokenID: canonicalID}
	}

	record.Owner = to
	record.PreviousOwner = &from
	record.Approved = nil

	if err := u.save(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// ApplyApproval records the approved operator for tokenID. An existing
// record only has its approval replaced; owner and previous owner stay
// untouched, since an approval event does not assert a fresh ownership fact.
// On first sight of a token the owner argument is used as the best available
// ownership hint. The zero address (or an empty string) clears the approval.
func (u *Updater) ApplyApproval(ctx context.Context, ownerAddress, approvedAddress string, tokenID *big.Int) (*TokenRecord, error) {
	owner, err := domain.NormalizeAddress(ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize owner address: %w", err)
	}

	var approved *string
	if approvedAddress != "" && !domain.IsZeroAddress(approvedAddress) {
		normalized, err := domain.NormalizeAddress(approvedAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize approved address: %w", err)
		}
		approved = &normalized
	}

	canonicalID, err := domain.CanonicalTokenID(tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize token id: %w", err)
	}

	record, err := u.Record(ctx, canonicalID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &TokenRecord{TokenID: canonicalID, Owner: owner}
	}

	record.Approved = approved

	if err := u.save(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Record loads the ledger record for a canonical token id, or nil when the
// token has never been seen
func (u *Updater) Record(ctx context.Context, tokenID string) (*TokenRecord, error) {
	value, err := u.store.Get(ctx, u.namespace, RecordKey(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to load token record: %w", err)
	}
	if value == nil {
		return nil, nil
	}

	var record TokenRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token record: %w", err)
	}

	return &record, nil
}

func (u *Updater) save(ctx context.Context, record *TokenRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	if err := u.store.Set(ctx, u.namespace, RecordKey(record.TokenID), value); err != nil {
		return fmt.Errorf("failed to store token record: %w", err)
	}

	return nil
}
