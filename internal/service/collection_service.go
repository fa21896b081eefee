package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BarishY/Astroverse/internal/apod"
	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/repository"

	"gorm.io/gorm"
)

// ApodGateway is the slice of the APOD client collections need for
// cover image lookups.
type ApodGateway interface {
	GetByDate(ctx context.Context, date string) (*apod.Entry, error)
}

type CollectionService struct {
	collectionRepo repository.CollectionRepository
	apodRepo       repository.ApodInteractionRepository
	access         *AccessService
	apodGateway    ApodGateway
}

type CreateCollectionInput struct {
	OwnerID uint
	Name    string
	Privacy models.CollectionPrivacy
}

type UpdateCollectionInput struct {
	UserID       uint
	CollectionID uint
	Name         string
	Privacy      models.CollectionPrivacy
}

// ToggleItemInput carries the post date plus the metadata snapshot the
// caller already has, so an add does not always need an API round trip.
type ToggleItemInput struct {
	UserID       uint
	CollectionID uint
	PostID       string
	Title        string
	URL          string
	MediaType    string
}

func NewCollectionService(
	collectionRepo repository.CollectionRepository,
	apodRepo repository.ApodInteractionRepository,
	access *AccessService,
	apodGateway ApodGateway,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		apodRepo:       apodRepo,
		access:         access,
		apodGateway:    apodGateway,
	}
}

const maxCollectionNameLen = 100

func (s *CollectionService) CreateCollection(ctx context.Context, in CreateCollectionInput) (*models.Collection, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Collection name is required")
	}
	if len(name) > maxCollectionNameLen {
		return nil, models.NewValidationError("Collection name too long (max 100 characters)")
	}
	privacy := in.Privacy
	if privacy == "" {
		privacy = models.CollectionPrivacyPublic
	}
	if !privacy.Valid() {
		return nil, models.NewValidationError("Invalid privacy level")
	}

	collection := &models.Collection{OwnerID: in.OwnerID, Name: name, Privacy: privacy}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return s.collectionRepo.GetByID(ctx, collection.ID, in.OwnerID)
}

// GetCollection returns the collection when the viewer may see it.
// Collections the viewer cannot see produce a not-found error rather
// than confirming their existence.
func (s *CollectionService) GetCollection(ctx context.Context, id uint, viewerID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collection", id)
		}
		return nil, err
	}
	visible, err := s.access.CanViewCollection(ctx, collection, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Collection", id)
	}
	return collection, nil
}

// GetCollectionItems returns the collection's items, newest first.
func (s *CollectionService) GetCollectionItems(ctx context.Context, id uint, viewerID uint) ([]*models.CollectionItem, error) {
	if _, err := s.GetCollection(ctx, id, viewerID); err != nil {
		return nil, err
	}
	return s.collectionRepo.Items(ctx, id)
}

func (s *CollectionService) UpdateCollection(ctx context.Context, in UpdateCollectionInput) (*models.Collection, error) {
	collection, err := s.ownedCollection(ctx, in.CollectionID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, models.NewValidationError("Collection name is required")
		}
		if len(name) > maxCollectionNameLen {
			return nil, models.NewValidationError("Collection name too long (max 100 characters)")
		}
		collection.Name = name
	}
	if in.Privacy != "" {
		if !in.Privacy.Valid() {
			return nil, models.NewValidationError("Invalid privacy level")
		}
		collection.Privacy = in.Privacy
	}

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return s.collectionRepo.GetByID(ctx, collection.ID, in.UserID)
}

func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID uint) error {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	if err := s.collectionRepo.Delete(ctx, collectionID); err != nil {
		return err
	}
	cache.RemoveFromLeaderboard(ctx, collectionID)
	return nil
}

// ListUserCollections lists ownerID's collections scoped to what the
// viewer may see.
func (s *CollectionService) ListUserCollections(ctx context.Context, ownerID, viewerID uint) ([]*models.Collection, error) {
	privacies, err := s.access.VisiblePrivacies(ctx, ownerID, viewerID)
	if err != nil {
		return nil, err
	}
	return s.collectionRepo.ListByOwner(ctx, ownerID, privacies, viewerID)
}

// Reorder persists the owner's preferred collection ordering.
func (s *CollectionService) Reorder(ctx context.Context, userID uint, orderedIDs []uint) error {
	if len(orderedIDs) == 0 {
		return models.NewValidationError("Order must list at least one collection")
	}
	return s.collectionRepo.Reorder(ctx, userID, orderedIDs)
}

// ToggleItem adds the post to the collection, or removes it when it is
// already a member. The cover image always follows the most recently
// added item afterwards.
func (s *CollectionService) ToggleItem(ctx context.Context, in ToggleItemInput) (models.ToggleResult, error) {
	if _, err := time.Parse(apod.DateLayout, in.PostID); err != nil {
		return "", models.NewValidationError("Invalid post date")
	}
	if _, err := s.ownedCollection(ctx, in.CollectionID, in.UserID); err != nil {
		return "", err
	}

	if err := s.ensureSnapshot(ctx, in); err != nil {
		return "", err
	}

	added, err := s.collectionRepo.AddItem(ctx, &models.CollectionItem{
		CollectionID: in.CollectionID,
		PostID:       in.PostID,
	})
	if err != nil {
		return "", err
	}

	result := models.ToggleAdded
	if !added {
		if _, err := s.collectionRepo.RemoveItem(ctx, in.CollectionID, in.PostID); err != nil {
			return "", err
		}
		result = models.ToggleRemoved
	}

	if err := s.refreshCoverImage(ctx, in.CollectionID); err != nil {
		return "", err
	}
	return result, nil
}

// ensureSnapshot creates the post anchor row, preferring the caller's
// metadata and falling back to the APOD API when none was supplied.
func (s *CollectionService) ensureSnapshot(ctx context.Context, in ToggleItemInput) error {
	post := &models.ApodPost{
		PostID:    in.PostID,
		Title:     in.Title,
		URL:       in.URL,
		MediaType: in.MediaType,
	}
	if post.URL == "" && s.apodGateway != nil {
		entry, err := s.apodGateway.GetByDate(ctx, in.PostID)
		if err == nil {
			post.Title = entry.Title
			post.URL = entry.URL
			post.MediaType = entry.MediaType
		} else if !errors.Is(err, apod.ErrNotFound) {
			return err
		}
	}
	return s.apodRepo.EnsurePost(ctx, post)
}

// refreshCoverImage recomputes the cover from the newest item: its
// image URL, or empty when the collection is empty or the newest item
// is a video.
func (s *CollectionService) refreshCoverImage(ctx context.Context, collectionID uint) error {
	latest, err := s.collectionRepo.LatestItem(ctx, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.collectionRepo.SetCoverImage(ctx, collectionID, "")
		}
		return err
	}

	cover := ""
	if post, err := s.apodRepo.GetPost(ctx, latest.PostID, 0); err == nil {
		if post.MediaType == "image" {
			cover = post.URL
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.collectionRepo.SetCoverImage(ctx, collectionID, cover)
}

func (s *CollectionService) ownedCollection(ctx context.Context, collectionID, userID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collection", collectionID)
		}
		return nil, err
	}
	if collection.OwnerID != userID {
		// A collection the caller cannot see reads as absent, same as
		// the read paths, so mutations do not confirm it exists.
		visible, err := s.access.CanViewCollection(ctx, collection, userID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, models.NewNotFoundError("Collection", collectionID)
		}
		return nil, models.NewForbiddenError("Only the owner can modify a collection")
	}
	return collection, nil
}
