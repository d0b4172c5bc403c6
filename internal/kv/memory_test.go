package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) testStore {
		return NewMemoryStore()
	})
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "ledger", "token:1", json.RawMessage(`{"v":1}`)))

	read, err := s.Get(ctx, "ledger", "token:1")
	require.NoError(t, err)
	read[0] = 'X'

	again, err := s.Get(ctx, "ledger", "token:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(again))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("token:%d", i%4)
			value := json.RawMessage(fmt.Sprintf(`{"writer":%d}`, i))
			assert.NoError(t, s.Set(ctx, "ledger", key, value))
			_, err := s.Get(ctx, "ledger", key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := s.Count(ctx, "ledger", "token:")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
