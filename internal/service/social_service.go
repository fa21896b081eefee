package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/repository"

	"gorm.io/gorm"
)

type SocialService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewSocialService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *SocialService {
	return &SocialService{userRepo: userRepo, followRepo: followRepo}
}

// FollowUser creates a follow edge. Re-following is a no-op.
func (s *SocialService) FollowUser(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", followeeID)
		}
		return err
	}
	return s.followRepo.Follow(ctx, followerID, followeeID)
}

func (s *SocialService) UnfollowUser(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("Cannot unfollow yourself")
	}
	return s.followRepo.Unfollow(ctx, followerID, followeeID)
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *SocialService) Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	return s.followRepo.Followers(ctx, userID, limit, offset)
}

func (s *SocialService) Following(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	return s.followRepo.Following(ctx, userID, limit, offset)
}

func (s *SocialService) Mutuals(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.followRepo.Mutuals(ctx, userID)
}

// SearchUsers finds users by username prefix, case-insensitively.
func (s *SocialService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	users, err := s.userRepo.SearchByPrefix(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// GetProfile fetches a user's profile by username.
func (s *SocialService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *SocialService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}
