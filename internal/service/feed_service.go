package service

import (
	"context"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/repository"
)

type FeedService struct {
	collectionRepo repository.CollectionRepository
	followRepo     repository.FollowRepository
}

func NewFeedService(collectionRepo repository.CollectionRepository, followRepo repository.FollowRepository) *FeedService {
	return &FeedService{collectionRepo: collectionRepo, followRepo: followRepo}
}

// FollowingFeed lists collections from users the viewer follows,
// newest first. Following nobody yields an empty feed.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Collection, error) {
	followeeIDs, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return []*models.Collection{}, nil
	}

	var collections []*models.Collection
	if offset == 0 {
		// The first page is what the home screen polls; the key is
		// per viewer and dropped on follow changes.
		err = cache.Aside(ctx, cache.FollowingFeedKey(userID), &collections, cache.FollowingTTL, func() error {
			var fetchErr error
			collections, fetchErr = s.collectionRepo.ListFollowingFeed(ctx, followeeIDs, userID, limit, offset)
			return fetchErr
		})
	} else {
		collections, err = s.collectionRepo.ListFollowingFeed(ctx, followeeIDs, userID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []*models.Collection{}
	}
	return collections, nil
}

// RecentFeed lists the newest public collections. The anonymous first
// page is cache-aside cached since it is identical for everyone.
func (s *FeedService) RecentFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Collection, error) {
	var collections []*models.Collection
	var err error

	if viewerID == 0 && offset == 0 {
		err = cache.Aside(ctx, cache.PublicRecentKey, &collections, cache.PublicRecentTTL, func() error {
			var fetchErr error
			collections, fetchErr = s.collectionRepo.ListPublicRecent(ctx, 0, limit, offset)
			return fetchErr
		})
	} else {
		collections, err = s.collectionRepo.ListPublicRecent(ctx, viewerID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []*models.Collection{}
	}
	return collections, nil
}

// PopularFeed lists public collections by interaction volume: likes
// first, comments as tiebreaker. The leaderboard serves the ranking;
// when it is unavailable the database orders by the computed counts.
func (s *FeedService) PopularFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Collection, error) {
	if offset == 0 {
		if ids, ok := cache.TopCollections(ctx, limit); ok {
			collections, err := s.collectionRepo.ListPublicByIDs(ctx, ids, viewerID)
			if err != nil {
				return nil, err
			}
			if len(collections) > 0 {
				return collections, nil
			}
		}
	}

	collections, err := s.collectionRepo.ListPublicPopular(ctx, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []*models.Collection{}
	}
	return collections, nil
}
