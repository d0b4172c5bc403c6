package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore is the surface the shared suite exercises; both implementations
// satisfy it.
type testStore interface {
	Store
	Lister
}

// runStoreSuite checks the semantics every store implementation must satisfy
func runStoreSuite(t *testing.T, newStore func(t *testing.T) testStore) {
	ctx := context.Background()

	t.Run("get missing key returns nil without error", func(t *testing.T) {
		s := newStore(t)

		value, err := s.Get(ctx, "ledger", "token:missing")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		s := newStore(t)

		written := json.RawMessage(`{"owner":"0x0000000000000000000000000000000000000aaa"}`)
		require.NoError(t, s.Set(ctx, "ledger", "token:1", written))

		read, err := s.Get(ctx, "ledger", "token:1")
		require.NoError(t, err)
		assert.JSONEq(t, string(written), string(read))
	})

	t.Run("rewriting a key is last-write-wins", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(ctx, "ledger", "token:1", json.RawMessage(`{"v":1}`)))
		require.NoError(t, s.Set(ctx, "ledger", "token:1", json.RawMessage(`{"v":2}`)))

		read, err := s.Get(ctx, "ledger", "token:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(read))
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(ctx, "ledger-a", "token:1", json.RawMessage(`{"v":"a"}`)))
		require.NoError(t, s.Set(ctx, "ledger-b", "token:1", json.RawMessage(`{"v":"b"}`)))

		readA, err := s.Get(ctx, "ledger-a", "token:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":"a"}`, string(readA))

		readB, err := s.Get(ctx, "ledger-b", "token:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":"b"}`, string(readB))

		missing, err := s.Get(ctx, "ledger-c", "token:1")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("list pages in key order", func(t *testing.T) {
		s := newStore(t)

		for i := 1; i <= 5; i++ {
			key := fmt.Sprintf("token:%02d", i)
			require.NoError(t, s.Set(ctx, "ledger", key, json.RawMessage(fmt.Sprintf(`{"i":%d}`, i))))
		}

		entries, err := s.List(ctx, "ledger", "token:", 1, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "token:02", entries[0].Key)
		assert.Equal(t, "token:03", entries[1].Key)
		assert.JSONEq(t, `{"i":2}`, string(entries[0].Value))

		tail, err := s.List(ctx, "ledger", "token:", 4, 10)
		require.NoError(t, err)
		require.Len(t, tail, 1)
		assert.Equal(t, "token:05", tail[0].Key)

		past, err := s.List(ctx, "ledger", "token:", 10, 10)
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("list and count honor the prefix", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(ctx, "ledger", "token:1", json.RawMessage(`{}`)))
		require.NoError(t, s.Set(ctx, "ledger", "token:2", json.RawMessage(`{}`)))
		require.NoError(t, s.Set(ctx, "ledger", "cursor:1", json.RawMessage(`{}`)))

		entries, err := s.List(ctx, "ledger", "token:", 0, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		count, err := s.Count(ctx, "ledger", "token:")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		all, err := s.Count(ctx, "ledger", "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), all)
	})
}
