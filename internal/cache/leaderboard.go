package cache

import (
	"context"
	"strconv"
)

// Collection popularity is kept as a Redis sorted set that is bumped on
// every like/comment event instead of recomputed by a full scan. Likes
// weigh likeWeight so the resulting order matches sorting by
// (likeCount desc, commentCount desc) for realistic comment volumes.
const (
	leaderboardKey = "collections:popular"
	likeWeight     = 1000
	commentWeight  = 1
)

// BumpLike adjusts a collection's leaderboard score by delta likes.
func BumpLike(ctx context.Context, collectionID uint, delta int) {
	bump(ctx, collectionID, float64(delta*likeWeight))
}

// BumpComment adjusts a collection's leaderboard score by delta comments.
func BumpComment(ctx context.Context, collectionID uint, delta int) {
	bump(ctx, collectionID, float64(delta*commentWeight))
}

func bump(ctx context.Context, collectionID uint, delta float64) {
	if client == nil {
		return
	}
	client.ZIncrBy(ctx, leaderboardKey, delta, memberFor(collectionID))
}

// RemoveFromLeaderboard drops a deleted collection from the index.
func RemoveFromLeaderboard(ctx context.Context, collectionID uint) {
	if client == nil {
		return
	}
	client.ZRem(ctx, leaderboardKey, memberFor(collectionID))
}

// TopCollections returns up to n collection IDs ordered by popularity.
// A nil client or empty set yields (nil, false) and callers fall back to
// ordering in the database.
func TopCollections(ctx context.Context, n int) ([]uint, bool) {
	if client == nil {
		return nil, false
	}
	members, err := client.ZRevRange(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil || len(members) == 0 {
		return nil, false
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, len(ids) > 0
}

func memberFor(collectionID uint) string {
	return strconv.FormatUint(uint64(collectionID), 10)
}
