package repository

import (
	"context"
	"time"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collection data operations
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Collection, error)
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint, privacies []models.CollectionPrivacy, currentUserID uint) ([]*models.Collection, error)
	Reorder(ctx context.Context, ownerID uint, orderedIDs []uint) error

	AddItem(ctx context.Context, item *models.CollectionItem) (bool, error)
	RemoveItem(ctx context.Context, collectionID uint, postID string) (bool, error)
	Items(ctx context.Context, collectionID uint) ([]*models.CollectionItem, error)
	LatestItem(ctx context.Context, collectionID uint) (*models.CollectionItem, error)
	SetCoverImage(ctx context.Context, collectionID uint, coverImage string) error

	ListFollowingFeed(ctx context.Context, followeeIDs []uint, currentUserID uint, limit, offset int) ([]*models.Collection, error)
	ListPublicRecent(ctx context.Context, currentUserID uint, limit, offset int) ([]*models.Collection, error)
	ListPublicByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.Collection, error)
	ListPublicPopular(ctx context.Context, currentUserID uint, limit, offset int) ([]*models.Collection, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	err := r.db.WithContext(ctx).Create(collection).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PublicRecentKey)
	}
	return err
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Collection, error) {
	var collection models.Collection

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.CollectionKey(id), &collection, cache.CollectionTTL, func() error {
			return r.applyCollectionDetails(r.db.WithContext(ctx), 0).
				Preload("Owner").
				First(&collection, id).Error
		})
	} else {
		err = r.applyCollectionDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Owner").
			First(&collection, id).Error
	}
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Save(collection).Error; err != nil {
		return err
	}
	cache.InvalidateCollection(ctx, collection.ID)
	return nil
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, id).Error
	})
	if err == nil {
		cache.InvalidateCollection(ctx, id)
	}
	return err
}

func (r *collectionRepository) ListByOwner(ctx context.Context, ownerID uint, privacies []models.CollectionPrivacy, currentUserID uint) ([]*models.Collection, error) {
	var collections []*models.Collection
	q := r.applyCollectionDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Owner").
		Where("owner_id = ?", ownerID)
	if len(privacies) > 0 {
		q = q.Where("privacy IN ?", privacies)
	}
	err := q.Order("position ASC, created_at DESC").Find(&collections).Error
	return collections, err
}

// Reorder rewrites the position column for the owner's collections to
// match orderedIDs. IDs not owned by ownerID are silently skipped.
func (r *collectionRepository) Reorder(ctx context.Context, ownerID uint, orderedIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			err := tx.Model(&models.Collection{}).
				Where("id = ? AND owner_id = ?", id, ownerID).
				Update("position", pos).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// AddItem inserts the membership row if absent and reports whether a
// row was actually inserted. ON CONFLICT DO NOTHING makes concurrent
// toggles race-safe.
func (r *collectionRepository) AddItem(ctx context.Context, item *models.CollectionItem) (bool, error) {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	if item.Type == "" {
		item.Type = "apod"
	}
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO collection_items (collection_id, post_id, type, added_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection_id, post_id) DO NOTHING`,
		item.CollectionID, item.PostID, item.Type, item.AddedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateCollection(ctx, item.CollectionID)
	}
	return result.RowsAffected > 0, nil
}

// RemoveItem hard deletes the membership row and reports whether one existed.
func (r *collectionRepository) RemoveItem(ctx context.Context, collectionID uint, postID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Delete(&models.CollectionItem{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateCollection(ctx, collectionID)
	}
	return result.RowsAffected > 0, nil
}

func (r *collectionRepository) Items(ctx context.Context, collectionID uint) ([]*models.CollectionItem, error) {
	var items []*models.CollectionItem
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("added_at DESC").
		Find(&items).Error
	return items, err
}

func (r *collectionRepository) LatestItem(ctx context.Context, collectionID uint) (*models.CollectionItem, error) {
	var item models.CollectionItem
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("added_at DESC").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *collectionRepository) SetCoverImage(ctx context.Context, collectionID uint, coverImage string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("id = ?", collectionID).
		Update("cover_image", coverImage).Error
	if err == nil {
		cache.InvalidateCollection(ctx, collectionID)
	}
	return err
}

// ListFollowingFeed returns followed users' collections the viewer is
// allowed to see: their public and followers-only collections, newest
// first. Private collections never appear.
func (r *collectionRepository) ListFollowingFeed(ctx context.Context, followeeIDs []uint, currentUserID uint, limit, offset int) ([]*models.Collection, error) {
	if len(followeeIDs) == 0 {
		return nil, nil
	}
	var collections []*models.Collection
	err := r.applyCollectionDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Owner").
		Where("owner_id IN ? AND privacy IN ?", followeeIDs,
			[]models.CollectionPrivacy{models.CollectionPrivacyPublic, models.CollectionPrivacyFollowers}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) ListPublicRecent(ctx context.Context, currentUserID uint, limit, offset int) ([]*models.Collection, error) {
	var collections []*models.Collection
	err := r.applyCollectionDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Owner").
		Where("privacy = ?", models.CollectionPrivacyPublic).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&collections).Error
	return collections, err
}

// ListPublicByIDs fetches public collections for a pre-ranked ID list
// and returns them in the given order.
func (r *collectionRepository) ListPublicByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.Collection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var collections []*models.Collection
	err := r.applyCollectionDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Owner").
		Where("id IN ? AND privacy = ?", ids, models.CollectionPrivacyPublic).
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Collection, len(collections))
	for _, c := range collections {
		byID[c.ID] = c
	}
	ordered := make([]*models.Collection, 0, len(collections))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// ListPublicPopular orders by the computed counts directly. It is the
// fallback path when the leaderboard is unavailable.
func (r *collectionRepository) ListPublicPopular(ctx context.Context, currentUserID uint, limit, offset int) ([]*models.Collection, error) {
	var collections []*models.Collection
	err := r.applyCollectionDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Owner").
		Where("privacy = ?", models.CollectionPrivacyPublic).
		Order("like_count DESC, comment_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&collections).Error
	return collections, err
}

// applyCollectionDetails adds subqueries to fetch counts and liked status in a single query.
func (r *collectionRepository) applyCollectionDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "collections.*, " +
		"(SELECT COUNT(*) FROM collection_items WHERE collection_items.collection_id = collections.id) as item_count, " +
		"(SELECT COUNT(*) FROM collection_likes WHERE collection_likes.collection_id = collections.id) as like_count, " +
		"(SELECT COUNT(*) FROM collection_comments WHERE collection_comments.collection_id = collections.id AND collection_comments.deleted_at IS NULL) as comment_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM collection_likes WHERE collection_likes.collection_id = collections.id AND collection_likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select(selectQuery + ", false as liked")
}
