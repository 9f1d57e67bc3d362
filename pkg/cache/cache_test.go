package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "artist:1", map[string]any{"name": "Asha"}, time.Minute))

	var got map[string]any
	hit, err := s.Get(ctx, "artist:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Asha", got["name"])

	require.NoError(t, s.Delete(ctx, "artist:1"))
	ok, err := s.Has(ctx, "artist:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "revoked:abc", true, time.Second))
	ok, _ := s.Has(ctx, "revoked:abc")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, _ = s.Has(ctx, "revoked:abc")
	assert.False(t, ok)
}

func TestMemoryStoreIncrementWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		n, err := s.Increment(ctx, "rate:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	var n int64
	hit, err := s.Get(ctx, "rate:1.2.3.4", &n)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(3), n)

	now = now.Add(61 * time.Second)
	got, err := s.Increment(ctx, "rate:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counter restarts after its window")
}

func TestMemoryStoreSweepDropsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "a", 1, time.Second))
	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Set(ctx, "b", 2, 0))

	s.mu.Lock()
	defer s.mu.Unlock()
	_, present := s.items["a"]
	assert.False(t, present)
}
