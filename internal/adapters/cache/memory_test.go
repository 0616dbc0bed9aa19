package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostclient/boostclient-service/internal/domain"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("stored value is returned", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("stored value is copied", func(t *testing.T) {
		value := []byte("abc")
		require.NoError(t, c.Set(ctx, "copy", value, 0))
		value[0] = 'x'

		got, err := c.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)

		got[1] = 'y'
		again, err := c.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", []byte("v"), 0))
		require.NoError(t, c.Delete(ctx, "gone"))
		require.NoError(t, c.Delete(ctx, "never-set"))

		_, err := c.Get(ctx, "gone")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "short", []byte("v"), 1))

	c.mu.Lock()
	e := c.entries["short"]
	e.expiresAt = time.Now().Add(-time.Second)
	c.entries["short"] = e
	c.mu.Unlock()

	_, err := c.Get(ctx, "short")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, c.Len())

	c.cleanup()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
