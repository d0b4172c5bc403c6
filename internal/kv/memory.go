package kv

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with the same semantics as the backed
// implementations: nil for absent keys, last-write-wins per key, namespace
// isolation. It backs tests and local runs without a database.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]memoryEntry),
	}
}

// Get retrieves the value stored under (namespace, key). Absent keys return (nil, nil).
func (s *MemoryStore) Get(_ context.Context, namespace, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.namespaces[namespace]
	if !ok {
		return nil, nil
	}
	entry, ok := entries[key]
	if !ok {
		return nil, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores value under (namespace, key), replacing any previous value
func (s *MemoryStore) Set(_ context.Context, namespace, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.namespaces[namespace]
	if !ok {
		entries = make(map[string]memoryEntry)
		s.namespaces[namespace] = entries
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	entries[key] = memoryEntry{value: stored, updatedAt: time.Now().UTC()}

	return nil
}

// List returns up to size entries whose keys start with prefix, ordered by key
func (s *MemoryStore) List(_ context.Context, namespace, prefix string, offset, size int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.matchingKeys(namespace, prefix)

	if offset >= len(keys) {
		return []Entry{}, nil
	}
	keys = keys[offset:]
	if size >= 0 && size < len(keys) {
		keys = keys[:size]
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entry := s.namespaces[namespace][key]
		value := make([]byte, len(entry.value))
		copy(value, entry.value)
		entries = append(entries, Entry{Key: key, Value: value, UpdatedAt: entry.updatedAt})
	}

	return entries, nil
}

// Count returns the number of entries whose keys start with prefix
func (s *MemoryStore) Count(_ context.Context, namespace, prefix string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matchingKeys(namespace, prefix))), nil
}

// matchingKeys returns the sorted keys of namespace starting with prefix.
// Callers must hold at least a read lock.
func (s *MemoryStore) matchingKeys(namespace, prefix string) []string {
	entries, ok := s.namespaces[namespace]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	return keys
}
