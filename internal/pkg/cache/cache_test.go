package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "revoked:abc", []byte("1"), time.Minute))

	val, ok, err := store.Get(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), val)

	now = now.Add(time.Minute)
	_, ok, err = store.Get(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "a", []byte("x"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("y"), 0))
	require.NoError(t, store.Delete(ctx, "a", "b"))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.False(t, ok)
}
