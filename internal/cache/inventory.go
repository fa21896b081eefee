package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	CollectionKeyPrefix = "collection:%d"
	ApodDateKeyPrefix   = "apod:%s"
	PublicRecentKey     = "collections:recent"
	FollowingFeedPrefix = "feed:following:%d"
)

const (
	UserTTL         = 5 * time.Minute
	CollectionTTL   = 10 * time.Minute
	ApodTTL         = 12 * time.Hour
	PublicRecentTTL = 2 * time.Minute
	FollowingTTL    = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CollectionKey(collectionID uint) string {
	return fmt.Sprintf(CollectionKeyPrefix, collectionID)
}

func ApodDateKey(date string) string {
	return fmt.Sprintf(ApodDateKeyPrefix, date)
}

func FollowingFeedKey(userID uint) string {
	return fmt.Sprintf(FollowingFeedPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCollection(ctx context.Context, collectionID uint) {
	Invalidate(ctx, CollectionKey(collectionID))
	Invalidate(ctx, PublicRecentKey)
}
