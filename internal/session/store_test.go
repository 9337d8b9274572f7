package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateResolve(t *testing.T) {
	store := NewMemoryStore()
	userID := uuid.New()

	token := store.Create(userID)
	require.Len(t, token, 32)
	assert.NotContains(t, token, "-")

	resolved, ok := store.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, userID, resolved)
}

func TestMemoryStoreTokensAreUnique(t *testing.T) {
	store := NewMemoryStore()
	userID := uuid.New()

	first := store.Create(userID)
	second := store.Create(userID)
	assert.NotEqual(t, first, second)

	// Both tokens resolve independently to the same user.
	for _, token := range []string{first, second} {
		resolved, ok := store.Resolve(token)
		require.True(t, ok)
		assert.Equal(t, userID, resolved)
	}
}

func TestMemoryStoreDestroy(t *testing.T) {
	store := NewMemoryStore()
	token := store.Create(uuid.New())

	assert.True(t, store.Destroy(token))

	_, ok := store.Resolve(token)
	assert.False(t, ok)

	assert.False(t, store.Destroy(token))
}

func TestMemoryStoreResolveUnknownToken(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Resolve("deadbeefdeadbeefdeadbeefdeadbeef")
	assert.False(t, ok)
}
