package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "a", `{"x":1}`))
	require.NoError(t, s.Set(ctx, "b", "[]"))

	value, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"x":1}`, value)

	require.NoError(t, s.Remove(ctx, "a", "never-written"))
	_, found, _ = s.Get(ctx, "a")
	assert.False(t, found)
}

func TestMemoryStore_ListKeysSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "nlk:b:cards", "{}"))
	require.NoError(t, s.Set(ctx, "@users", "[]"))
	require.NoError(t, s.Set(ctx, "nlk:a:orders", "[]"))

	keys, err := s.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@users", "nlk:a:orders", "nlk:b:cards"}, keys)
}

func TestMemoryStore_EmptyValueIsPresent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "k", ""))

	value, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, value)
}
