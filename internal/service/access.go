// Package service contains the application's business logic.
package service

import (
	"context"

	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/repository"
)

// AccessService decides collection visibility. Every read path goes
// through CanViewCollection, so privacy is enforced here and nowhere
// else.
type AccessService struct {
	followRepo repository.FollowRepository
}

// NewAccessService creates a new access service
func NewAccessService(followRepo repository.FollowRepository) *AccessService {
	return &AccessService{followRepo: followRepo}
}

// CanViewCollection reports whether viewerID may see the collection.
// Owners always can; public collections are visible to everyone,
// including anonymous viewers (viewerID 0); followers-only collections
// require a follow edge from the viewer to the owner.
func (s *AccessService) CanViewCollection(ctx context.Context, collection *models.Collection, viewerID uint) (bool, error) {
	if collection.OwnerID == viewerID {
		return true, nil
	}
	switch collection.Privacy {
	case models.CollectionPrivacyPublic:
		return true, nil
	case models.CollectionPrivacyPrivate:
		return false, nil
	case models.CollectionPrivacyFollowers:
		if viewerID == 0 {
			return false, nil
		}
		return s.followRepo.IsFollowing(ctx, viewerID, collection.OwnerID)
	}
	return false, nil
}

// VisiblePrivacies returns the privacy levels of ownerID's collections
// that viewerID may list.
func (s *AccessService) VisiblePrivacies(ctx context.Context, ownerID, viewerID uint) ([]models.CollectionPrivacy, error) {
	if ownerID == viewerID {
		return nil, nil // nil means no filter: everything
	}
	if viewerID != 0 {
		follows, err := s.followRepo.IsFollowing(ctx, viewerID, ownerID)
		if err != nil {
			return nil, err
		}
		if follows {
			return []models.CollectionPrivacy{models.CollectionPrivacyPublic, models.CollectionPrivacyFollowers}, nil
		}
	}
	return []models.CollectionPrivacy{models.CollectionPrivacyPublic}, nil
}
