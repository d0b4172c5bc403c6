package kv

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the namespaced key-value capability the function core depends on.
// Get returns (nil, nil) when the key is absent; absence is never an error.
// Set overwrites unconditionally; conflict resolution is per-key
// last-write-wins with no cross-key transactional semantics.
//
//go:generate mockgen -source=kv.go -destination=../mocks/kv_store.go -package=mocks -mock_names=Store=MockKVStore,Lister=MockKVLister
type Store interface {
	// Get retrieves the value stored under (namespace, key)
	Get(ctx context.Context, namespace, key string) (json.RawMessage, error)
	// Set stores value under (namespace, key), replacing any previous value
	Set(ctx context.Context, namespace, key string, value json.RawMessage) error
}

// Entry is one stored record as returned by listing queries
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Lister pages through the records of a namespace, ordered by key.
// It is a read-side extension used by the API; the function core never lists.
type Lister interface {
	// List returns up to size entries whose keys start with prefix, skipping offset
	List(ctx context.Context, namespace, prefix string, offset, size int) ([]Entry, error)
	// Count returns the number of entries whose keys start with prefix
	Count(ctx context.Context, namespace, prefix string) (int64, error)
}
