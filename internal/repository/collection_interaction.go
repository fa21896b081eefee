package repository

import (
	"context"
	"time"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// CollectionInteractionRepository defines the interface for likes and
// comments on collections.
type CollectionInteractionRepository interface {
	Like(ctx context.Context, userID, collectionID uint) (bool, error)
	Unlike(ctx context.Context, userID, collectionID uint) (bool, error)
	IsLiked(ctx context.Context, userID, collectionID uint) (bool, error)
	LikerIDs(ctx context.Context, collectionID uint) ([]uint, error)

	AddComment(ctx context.Context, comment *models.CollectionComment) error
	GetComment(ctx context.Context, commentID uint) (*models.CollectionComment, error)
	DeleteComment(ctx context.Context, commentID uint) error
	Comments(ctx context.Context, collectionID uint, currentUserID uint) ([]*models.CollectionComment, error)

	LikeComment(ctx context.Context, userID, commentID uint) (bool, error)
	UnlikeComment(ctx context.Context, userID, commentID uint) (bool, error)
}

type collectionInteractionRepository struct {
	db *gorm.DB
}

// NewCollectionInteractionRepository creates a new collection interaction repository
func NewCollectionInteractionRepository(db *gorm.DB) CollectionInteractionRepository {
	return &collectionInteractionRepository{db: db}
}

// Like inserts the like row if absent and reports whether it was
// inserted. ON CONFLICT DO NOTHING makes concurrent double-likes safe.
func (r *collectionInteractionRepository) Like(ctx context.Context, userID, collectionID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO collection_likes (user_id, collection_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, collection_id) DO NOTHING`,
		userID, collectionID, time.Now(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateCollection(ctx, collectionID)
	}
	return result.RowsAffected > 0, nil
}

// Unlike hard deletes the like row and reports whether one existed.
func (r *collectionInteractionRepository) Unlike(ctx context.Context, userID, collectionID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND collection_id = ?", userID, collectionID).
		Delete(&models.CollectionLike{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateCollection(ctx, collectionID)
	}
	return result.RowsAffected > 0, nil
}

func (r *collectionInteractionRepository) IsLiked(ctx context.Context, userID, collectionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CollectionLike{}).
		Where("user_id = ? AND collection_id = ?", userID, collectionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *collectionInteractionRepository) LikerIDs(ctx context.Context, collectionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CollectionLike{}).
		Where("collection_id = ?", collectionID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *collectionInteractionRepository) AddComment(ctx context.Context, comment *models.CollectionComment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.InvalidateCollection(ctx, comment.CollectionID)
	}
	return err
}

func (r *collectionInteractionRepository) GetComment(ctx context.Context, commentID uint) (*models.CollectionComment, error) {
	var comment models.CollectionComment
	if err := r.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *collectionInteractionRepository) DeleteComment(ctx context.Context, commentID uint) error {
	var comment models.CollectionComment
	if err := r.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return err
	}
	cache.InvalidateCollection(ctx, comment.CollectionID)
	return nil
}

func (r *collectionInteractionRepository) Comments(ctx context.Context, collectionID uint, currentUserID uint) ([]*models.CollectionComment, error) {
	var comments []*models.CollectionComment
	err := r.applyCommentDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("collection_id = ?", collectionID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *collectionInteractionRepository) LikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO collection_comment_likes (user_id, comment_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, comment_id) DO NOTHING`,
		userID, commentID, time.Now(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *collectionInteractionRepository) UnlikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CollectionCommentLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// applyCommentDetails adds subqueries to fetch comment like counts and
// liked status in a single query.
func (r *collectionInteractionRepository) applyCommentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "collection_comments.*, " +
		"(SELECT COUNT(*) FROM collection_comment_likes WHERE collection_comment_likes.comment_id = collection_comments.id) as like_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM collection_comment_likes WHERE collection_comment_likes.comment_id = collection_comments.id AND collection_comment_likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select(selectQuery + ", false as liked")
}
