package service

import (
	"context"
	"testing"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_FollowingFeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("following nobody", func(t *testing.T) {
		t.Parallel()
		svc := NewFeedService(noopCollectionRepo(), noopFollowRepo())

		feed, err := svc.FollowingFeed(ctx, 1, 20, 0)
		require.NoError(t, err)
		assert.NotNil(t, feed)
		assert.Empty(t, feed)
	})

	t.Run("passes followee ids through", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		follows.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) { return []uint{2, 3}, nil }

		collections := noopCollectionRepo()
		var gotIDs []uint
		collections.listFollowingFeedFn = func(_ context.Context, followeeIDs []uint, _ uint, _, _ int) ([]*models.Collection, error) {
			gotIDs = followeeIDs
			return []*models.Collection{{ID: 5}}, nil
		}
		svc := NewFeedService(collections, follows)

		feed, err := svc.FollowingFeed(ctx, 1, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{2, 3}, gotIDs)
		require.Len(t, feed, 1)
	})
}

// Not parallel: it swaps the package-level Redis client.
func TestFeedService_FollowingFeed_FirstPageCached(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	follows := noopFollowRepo()
	follows.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) { return []uint{2}, nil }

	collections := noopCollectionRepo()
	listCalls := 0
	collections.listFollowingFeedFn = func(_ context.Context, _ []uint, _ uint, _, _ int) ([]*models.Collection, error) {
		listCalls++
		return []*models.Collection{{ID: 5, OwnerID: 2, Name: "Nebulae"}}, nil
	}
	svc := NewFeedService(collections, follows)

	first, err := svc.FollowingFeed(ctx, 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, listCalls)

	// Second first-page read is served from the cache.
	second, err := svc.FollowingFeed(ctx, 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Nebulae", second[0].Name)
	assert.Equal(t, 1, listCalls)

	// Deeper pages always hit the database.
	_, err = svc.FollowingFeed(ctx, 1, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls)

	// Follow changes drop the key, forcing a fresh read.
	cache.Invalidate(ctx, cache.FollowingFeedKey(1))
	_, err = svc.FollowingFeed(ctx, 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, listCalls)
}

func TestFeedService_RecentFeed(t *testing.T) {
	t.Parallel()
	collections := noopCollectionRepo()
	collections.listPublicRecentFn = func(_ context.Context, viewerID uint, _, _ int) ([]*models.Collection, error) {
		return []*models.Collection{{ID: 1}, {ID: 2}}, nil
	}
	svc := NewFeedService(collections, noopFollowRepo())

	feed, err := svc.RecentFeed(context.Background(), 5, 20, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}

func TestFeedService_PopularFeed_FallsBackToDatabase(t *testing.T) {
	t.Parallel()
	collections := noopCollectionRepo()
	fallbackUsed := false
	collections.listPublicPopularFn = func(_ context.Context, _ uint, _, _ int) ([]*models.Collection, error) {
		fallbackUsed = true
		return []*models.Collection{{ID: 3}}, nil
	}
	svc := NewFeedService(collections, noopFollowRepo())

	// no redis client in unit tests, so the leaderboard is unavailable
	feed, err := svc.PopularFeed(context.Background(), 0, 20, 0)
	require.NoError(t, err)
	assert.True(t, fallbackUsed)
	require.Len(t, feed, 1)
	assert.EqualValues(t, 3, feed[0].ID)
}
