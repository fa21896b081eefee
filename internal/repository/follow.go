package repository

import (
	"context"
	"time"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow graph operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error)
	Following(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	Mutuals(ctx context.Context, userID uint) ([]*models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	// Atomic and idempotent: a concurrent duplicate follow is a no-op,
	// never a duplicate key error.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID, time.Now(),
	)
	if result.Error == nil {
		cache.InvalidateUser(ctx, followerID)
		cache.InvalidateUser(ctx, followeeID)
		cache.Invalidate(ctx, cache.FollowingFeedKey(followerID))
	}
	return result.Error
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err == nil {
		cache.InvalidateUser(ctx, followerID)
		cache.InvalidateUser(ctx, followeeID)
		cache.Invalidate(ctx, cache.FollowingFeedKey(followerID))
	}
	return err
}

// IsFollowing reports whether a follow edge exists. This row check is
// the single source of truth for followers-only visibility.
func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *followRepository) Following(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// Mutuals returns users who follow userID and are followed back.
func (r *followRepository) Mutuals(ctx context.Context, userID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows f1 ON f1.followee_id = users.id AND f1.follower_id = ?", userID).
		Joins("JOIN follows f2 ON f2.follower_id = users.id AND f2.followee_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}
