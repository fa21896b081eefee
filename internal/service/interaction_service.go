package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/middleware"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/repository"

	"gorm.io/gorm"
)

// InteractionPublisher pushes interaction snapshots to live
// subscribers. Implementations must tolerate being a no-op.
type InteractionPublisher interface {
	PublishCollection(ctx context.Context, collectionID uint, payload string) error
	PublishPost(ctx context.Context, postID string, payload string) error
}

type InteractionService struct {
	collectionRepo repository.CollectionRepository
	interactions   repository.CollectionInteractionRepository
	apodRepo       repository.ApodInteractionRepository
	access         *AccessService
	publisher      InteractionPublisher
}

type CommentInput struct {
	UserID       uint
	CollectionID uint
	Text         string
}

// PostCommentInput comments on an APOD post, carrying the metadata
// snapshot for lazy anchor creation.
type PostCommentInput struct {
	UserID    uint
	PostID    string
	Title     string
	URL       string
	MediaType string
	Text      string
}

// PostLikeInput toggles a like on an APOD post.
type PostLikeInput struct {
	UserID    uint
	PostID    string
	Title     string
	URL       string
	MediaType string
}

func NewInteractionService(
	collectionRepo repository.CollectionRepository,
	interactions repository.CollectionInteractionRepository,
	apodRepo repository.ApodInteractionRepository,
	access *AccessService,
	publisher InteractionPublisher,
) *InteractionService {
	return &InteractionService{
		collectionRepo: collectionRepo,
		interactions:   interactions,
		apodRepo:       apodRepo,
		access:         access,
		publisher:      publisher,
	}
}

const maxCommentLen = 2000

// ToggleCollectionLike likes the collection, or removes the like when
// one already exists. Returns whether the collection ends up liked.
func (s *InteractionService) ToggleCollectionLike(ctx context.Context, userID, collectionID uint) (bool, error) {
	if err := s.requireViewable(ctx, collectionID, userID); err != nil {
		return false, err
	}

	inserted, err := s.interactions.Like(ctx, userID, collectionID)
	if err != nil {
		return false, err
	}
	if inserted {
		cache.BumpLike(ctx, collectionID, 1)
	} else {
		removed, err := s.interactions.Unlike(ctx, userID, collectionID)
		if err != nil {
			return false, err
		}
		if removed {
			cache.BumpLike(ctx, collectionID, -1)
		}
	}
	middleware.InteractionEvents.WithLabelValues("collection", "like").Inc()

	s.publishCollectionSnapshot(ctx, collectionID, userID)
	return inserted, nil
}

func (s *InteractionService) CommentOnCollection(ctx context.Context, in CommentInput) (*models.CollectionComment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}
	if err := s.requireViewable(ctx, in.CollectionID, in.UserID); err != nil {
		return nil, err
	}

	comment := &models.CollectionComment{
		CollectionID: in.CollectionID,
		UserID:       in.UserID,
		Text:         text,
	}
	if err := s.interactions.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	cache.BumpComment(ctx, in.CollectionID, 1)
	middleware.InteractionEvents.WithLabelValues("collection", "comment").Inc()

	s.publishCollectionSnapshot(ctx, in.CollectionID, in.UserID)
	return comment, nil
}

// DeleteCollectionComment removes a comment. The comment author and the
// collection owner may delete it.
func (s *InteractionService) DeleteCollectionComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.interactions.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}
	if comment.UserID != userID {
		collection, err := s.collectionRepo.GetByID(ctx, comment.CollectionID, 0)
		if err != nil {
			return err
		}
		if collection.OwnerID != userID {
			return models.NewForbiddenError("Cannot delete someone else's comment")
		}
	}
	if err := s.interactions.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	cache.BumpComment(ctx, comment.CollectionID, -1)
	s.publishCollectionSnapshot(ctx, comment.CollectionID, userID)
	return nil
}

// ToggleCommentLike likes or unlikes a collection comment. Returns
// whether the comment ends up liked.
func (s *InteractionService) ToggleCommentLike(ctx context.Context, userID, commentID uint) (bool, error) {
	comment, err := s.interactions.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("Comment", commentID)
		}
		return false, err
	}
	if err := s.requireViewable(ctx, comment.CollectionID, userID); err != nil {
		return false, err
	}

	inserted, err := s.interactions.LikeComment(ctx, userID, commentID)
	if err != nil {
		return false, err
	}
	if !inserted {
		if _, err := s.interactions.UnlikeComment(ctx, userID, commentID); err != nil {
			return false, err
		}
	}
	s.publishCollectionSnapshot(ctx, comment.CollectionID, userID)
	return inserted, nil
}

// CollectionInteractions returns the full interaction state of a
// collection. A collection nobody has interacted with yields an empty
// summary.
func (s *InteractionService) CollectionInteractions(ctx context.Context, collectionID, viewerID uint) (*models.InteractionSummary, error) {
	if err := s.requireViewable(ctx, collectionID, viewerID); err != nil {
		return nil, err
	}
	return s.collectionSummary(ctx, collectionID, viewerID)
}

// CollectionComments lists a collection's comments, oldest first.
func (s *InteractionService) CollectionComments(ctx context.Context, collectionID, viewerID uint) ([]*models.CollectionComment, error) {
	if err := s.requireViewable(ctx, collectionID, viewerID); err != nil {
		return nil, err
	}
	comments, err := s.interactions.Comments(ctx, collectionID, viewerID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.CollectionComment{}
	}
	return comments, nil
}

// ApodPostComments lists an APOD post's comments. An uninteracted post
// simply has none.
func (s *InteractionService) ApodPostComments(ctx context.Context, postID string) ([]*models.ApodPostComment, error) {
	comments, err := s.apodRepo.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.ApodPostComment{}
	}
	return comments, nil
}

// ToggleApodPostLike likes or unlikes an APOD post, creating the anchor
// row on first interaction. Returns whether the post ends up liked.
func (s *InteractionService) ToggleApodPostLike(ctx context.Context, in PostLikeInput) (bool, error) {
	if err := s.ensurePost(ctx, in.PostID, in.Title, in.URL, in.MediaType); err != nil {
		return false, err
	}

	inserted, err := s.apodRepo.Like(ctx, in.UserID, in.PostID)
	if err != nil {
		return false, err
	}
	if !inserted {
		if _, err := s.apodRepo.Unlike(ctx, in.UserID, in.PostID); err != nil {
			return false, err
		}
	}
	middleware.InteractionEvents.WithLabelValues("post", "like").Inc()
	cache.Invalidate(ctx, cache.ApodDateKey(in.PostID))

	s.publishPostSnapshot(ctx, in.PostID, in.UserID)
	return inserted, nil
}

func (s *InteractionService) CommentOnApodPost(ctx context.Context, in PostCommentInput) (*models.ApodPostComment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}
	if err := s.ensurePost(ctx, in.PostID, in.Title, in.URL, in.MediaType); err != nil {
		return nil, err
	}

	comment := &models.ApodPostComment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
	}
	if err := s.apodRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	middleware.InteractionEvents.WithLabelValues("post", "comment").Inc()
	cache.Invalidate(ctx, cache.ApodDateKey(in.PostID))

	s.publishPostSnapshot(ctx, in.PostID, in.UserID)
	return comment, nil
}

// DeleteApodPostComment removes a post comment. Only its author may.
func (s *InteractionService) DeleteApodPostComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.apodRepo.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("Cannot delete someone else's comment")
	}
	if err := s.apodRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.publishPostSnapshot(ctx, comment.PostID, userID)
	return nil
}

// ApodPostInteractions returns the interaction state of an APOD post.
// Posts nobody has interacted with yield an empty summary, never an
// error.
func (s *InteractionService) ApodPostInteractions(ctx context.Context, postID string, viewerID uint) (*models.InteractionSummary, error) {
	summary := &models.InteractionSummary{PostID: postID, Likes: []uint{}}

	if _, err := s.apodRepo.GetPost(ctx, postID, viewerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, nil
		}
		return nil, err
	}

	likes, err := s.apodRepo.LikerIDs(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.apodRepo.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}

	if likes != nil {
		summary.Likes = likes
	}
	summary.LikeCount = len(likes)
	for _, c := range comments {
		summary.PostComments = append(summary.PostComments, *c)
	}
	summary.CommentCount = len(comments)
	return summary, nil
}

// SavedInCollections lists the viewer's collections containing the post.
func (s *InteractionService) SavedInCollections(ctx context.Context, postID string, userID uint) ([]models.SavedInCollection, error) {
	return s.apodRepo.SavedIn(ctx, postID, userID)
}

func (s *InteractionService) ensurePost(ctx context.Context, postID, title, url, mediaType string) error {
	return s.apodRepo.EnsurePost(ctx, &models.ApodPost{
		PostID:             postID,
		Title:              title,
		URL:                url,
		MediaType:          mediaType,
		FirstInteractionAt: time.Now(),
	})
}

func (s *InteractionService) requireViewable(ctx context.Context, collectionID, viewerID uint) error {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Collection", collectionID)
		}
		return err
	}
	visible, err := s.access.CanViewCollection(ctx, collection, viewerID)
	if err != nil {
		return err
	}
	if !visible {
		return models.NewNotFoundError("Collection", collectionID)
	}
	return nil
}

func (s *InteractionService) collectionSummary(ctx context.Context, collectionID, viewerID uint) (*models.InteractionSummary, error) {
	likes, err := s.interactions.LikerIDs(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	comments, err := s.interactions.Comments(ctx, collectionID, viewerID)
	if err != nil {
		return nil, err
	}

	summary := &models.InteractionSummary{
		CollectionID: collectionID,
		Likes:        []uint{},
		LikeCount:    len(likes),
		CommentCount: len(comments),
	}
	if likes != nil {
		summary.Likes = likes
	}
	for _, c := range comments {
		summary.Comments = append(summary.Comments, *c)
	}
	return summary, nil
}

func (s *InteractionService) publishCollectionSnapshot(ctx context.Context, collectionID, viewerID uint) {
	if s.publisher == nil {
		return
	}
	summary, err := s.collectionSummary(ctx, collectionID, viewerID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to build interaction snapshot", "collection_id", collectionID, "error", err)
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.publisher.PublishCollection(ctx, collectionID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish interaction snapshot", "collection_id", collectionID, "error", err)
	}
}

func (s *InteractionService) publishPostSnapshot(ctx context.Context, postID string, viewerID uint) {
	if s.publisher == nil {
		return
	}
	summary, err := s.ApodPostInteractions(ctx, postID, viewerID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to build interaction snapshot", "post_id", postID, "error", err)
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.publisher.PublishPost(ctx, postID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish interaction snapshot", "post_id", postID, "error", err)
	}
}
