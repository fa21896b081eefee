package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestLeaderboardOrdering(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	// 2 likes beats 1 like + many comments
	BumpLike(ctx, 1, 1)
	BumpComment(ctx, 1, 40)
	BumpLike(ctx, 2, 2)
	BumpLike(ctx, 3, 2)
	BumpComment(ctx, 3, 5)

	ids, ok := TopCollections(ctx, 10)
	require.True(t, ok)
	assert.Equal(t, []uint{3, 2, 1}, ids)
}

func TestLeaderboardUnlikeAndRemove(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	BumpLike(ctx, 7, 1)
	BumpLike(ctx, 8, 3)
	BumpLike(ctx, 8, -2)

	ids, ok := TopCollections(ctx, 10)
	require.True(t, ok)
	assert.Equal(t, []uint{8, 7}, ids)

	RemoveFromLeaderboard(ctx, 8)
	ids, ok = TopCollections(ctx, 10)
	require.True(t, ok)
	assert.Equal(t, []uint{7}, ids)
}

func TestTopCollectionsWithoutRedis(t *testing.T) {
	SetClient(nil)
	ids, ok := TopCollections(context.Background(), 5)
	assert.False(t, ok)
	assert.Nil(t, ids)
}

func TestTopCollectionsLimit(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()
	for i := uint(1); i <= 5; i++ {
		BumpLike(ctx, i, int(i))
	}

	ids, ok := TopCollections(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, []uint{5, 4}, ids)
}
