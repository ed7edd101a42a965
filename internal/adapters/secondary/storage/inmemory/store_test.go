package inmemory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrKeepsFirstTTL(t *testing.T) {
	s := NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	n, err := s.Incr(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	now = now.Add(50 * time.Minute)
	n, err = s.Incr(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	now = now.Add(11 * time.Minute)
	v, err := s.Value(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestGetMissAndExpiry(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.Get(ctx, "avatar:x")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "avatar:x", "{}", time.Minute))
	got, err := s.Get(ctx, "avatar:x")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "avatar:x")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestIncrConcurrent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Incr(ctx, "usage", 0)
		}()
	}
	wg.Wait()

	v, err := s.Value(ctx, "usage")
	require.NoError(t, err)
	assert.Equal(t, int64(50), v)
}
