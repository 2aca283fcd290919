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

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, store.Set(ctx, "greeting", json.RawMessage(`"hello"`)))

	raw, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.JSONEq(t, `"hello"`, string(raw))

	require.NoError(t, store.Delete(ctx, "greeting"))
	_, err = store.Get(ctx, "greeting")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryStoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, key := range []string{"org:a:members", "org:a:invites", "org:b:invites", "clients"} {
		require.NoError(t, store.Set(ctx, key, json.RawMessage(`[]`)))
	}

	keys, err := store.Keys(ctx, "org:")
	require.NoError(t, err)
	assert.Equal(t, []string{"org:a:invites", "org:a:members", "org:b:invites"}, keys)

	keys, err = store.Keys(ctx, "user:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreUpdateSerializesWriters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "counter", json.RawMessage(`0`)))

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "counter", func(current json.RawMessage) (json.RawMessage, error) {
				var n int
				if err := json.Unmarshal(current, &n); err != nil {
					return nil, err
				}
				return json.RawMessage(fmt.Sprintf("%d", n+1)), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, GetJSON(ctx, store, "counter", &n))
	assert.Equal(t, writers, n)
}

func TestMemoryStoreUpdateAbortLeavesValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", json.RawMessage(`"before"`)))

	sentinel := fmt.Errorf("abort")
	err := store.Update(ctx, "k", func(current json.RawMessage) (json.RawMessage, error) {
		return nil, sentinel
	})
	assert.Equal(t, sentinel, err)

	raw, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `"before"`, string(raw))
}

func TestMemoryStoreDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := json.RawMessage(`"original"`)
	require.NoError(t, store.Set(ctx, "k", value))
	copy(value, `"mutated!"`)

	raw, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `"original"`, string(raw))
}
