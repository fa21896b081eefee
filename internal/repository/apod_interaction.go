package repository

import (
	"context"
	"time"

	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// ApodInteractionRepository defines the interface for likes and
// comments on APOD posts, plus the lazily-created post anchor rows.
type ApodInteractionRepository interface {
	EnsurePost(ctx context.Context, post *models.ApodPost) error
	GetPost(ctx context.Context, postID string, currentUserID uint) (*models.ApodPost, error)

	Like(ctx context.Context, userID uint, postID string) (bool, error)
	Unlike(ctx context.Context, userID uint, postID string) (bool, error)
	LikerIDs(ctx context.Context, postID string) ([]uint, error)

	AddComment(ctx context.Context, comment *models.ApodPostComment) error
	GetComment(ctx context.Context, commentID uint) (*models.ApodPostComment, error)
	DeleteComment(ctx context.Context, commentID uint) error
	Comments(ctx context.Context, postID string) ([]*models.ApodPostComment, error)

	SavedIn(ctx context.Context, postID string, userID uint) ([]models.SavedInCollection, error)
}

type apodInteractionRepository struct {
	db *gorm.DB
}

// NewApodInteractionRepository creates a new APOD interaction repository
func NewApodInteractionRepository(db *gorm.DB) ApodInteractionRepository {
	return &apodInteractionRepository{db: db}
}

// EnsurePost creates the anchor row on first interaction, keeping the
// metadata snapshot from the triggering call. Existing rows are left
// untouched, so the snapshot is never re-synced.
func (r *apodInteractionRepository) EnsurePost(ctx context.Context, post *models.ApodPost) error {
	if post.FirstInteractionAt.IsZero() {
		post.FirstInteractionAt = time.Now()
	}
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO apod_posts (post_id, title, url, media_type, first_interaction_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (post_id) DO NOTHING`,
		post.PostID, post.Title, post.URL, post.MediaType, post.FirstInteractionAt,
	).Error
}

func (r *apodInteractionRepository) GetPost(ctx context.Context, postID string, currentUserID uint) (*models.ApodPost, error) {
	var post models.ApodPost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Where("post_id = ?", postID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *apodInteractionRepository) Like(ctx context.Context, userID uint, postID string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO apod_post_likes (user_id, post_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID, time.Now(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *apodInteractionRepository) Unlike(ctx context.Context, userID uint, postID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.ApodPostLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *apodInteractionRepository) LikerIDs(ctx context.Context, postID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ApodPostLike{}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *apodInteractionRepository) AddComment(ctx context.Context, comment *models.ApodPostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *apodInteractionRepository) GetComment(ctx context.Context, commentID uint) (*models.ApodPostComment, error) {
	var comment models.ApodPostComment
	if err := r.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *apodInteractionRepository) DeleteComment(ctx context.Context, commentID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ApodPostComment{}, commentID).Error
}

func (r *apodInteractionRepository) Comments(ctx context.Context, postID string) ([]*models.ApodPostComment, error) {
	var comments []*models.ApodPostComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// SavedIn lists the given user's collections that contain the post. It
// is derived by a join rather than a denormalized per-post array, so it
// cannot drift from the membership rows.
func (r *apodInteractionRepository) SavedIn(ctx context.Context, postID string, userID uint) ([]models.SavedInCollection, error) {
	var saved []models.SavedInCollection
	err := r.db.WithContext(ctx).
		Table("collection_items").
		Select("collections.owner_id as user_id, collections.id as collection_id, collections.name as collection_name").
		Joins("JOIN collections ON collections.id = collection_items.collection_id").
		Where("collection_items.post_id = ? AND collections.owner_id = ? AND collections.deleted_at IS NULL", postID, userID).
		Order("collection_items.added_at DESC").
		Scan(&saved).Error
	return saved, err
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *apodInteractionRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "apod_posts.*, " +
		"(SELECT COUNT(*) FROM apod_post_likes WHERE apod_post_likes.post_id = apod_posts.post_id) as like_count, " +
		"(SELECT COUNT(*) FROM apod_post_comments WHERE apod_post_comments.post_id = apod_posts.post_id) as comment_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM apod_post_likes WHERE apod_post_likes.post_id = apod_posts.post_id AND apod_post_likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select(selectQuery + ", false as liked")
}
