package service

import (
	"context"
	"errors"
	"testing"

	"github.com/BarishY/Astroverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	updateFn         func(context.Context, *models.User) error
	searchByPrefixFn func(context.Context, string, int) ([]*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	return s.searchByPrefixFn(ctx, prefix, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:         func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:     func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:  func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		updateFn:         func(_ context.Context, _ *models.User) error { return nil },
		searchByPrefixFn: func(_ context.Context, _ string, _ int) ([]*models.User, error) { return nil, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn       func(context.Context, uint, uint) error
	unfollowFn     func(context.Context, uint, uint) error
	isFollowingFn  func(context.Context, uint, uint) (bool, error)
	followersFn    func(context.Context, uint, int, int) ([]*models.User, error)
	followingFn    func(context.Context, uint, int, int) ([]*models.User, error)
	followingIDsFn func(context.Context, uint) ([]uint, error)
	mutualsFn      func(context.Context, uint) ([]*models.User, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followeeID uint) error {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return s.unfollowFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	return s.followersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	return s.followingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *followRepoStub) Mutuals(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.mutualsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:       func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:     func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followersFn:    func(_ context.Context, _ uint, _, _ int) ([]*models.User, error) { return nil, nil },
		followingFn:    func(_ context.Context, _ uint, _, _ int) ([]*models.User, error) { return nil, nil },
		followingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		mutualsFn:      func(_ context.Context, _ uint) ([]*models.User, error) { return nil, nil },
	}
}

// collectionRepoStub is a stub for repository.CollectionRepository.
type collectionRepoStub struct {
	createFn            func(context.Context, *models.Collection) error
	getByIDFn           func(context.Context, uint, uint) (*models.Collection, error)
	updateFn            func(context.Context, *models.Collection) error
	deleteFn            func(context.Context, uint) error
	listByOwnerFn       func(context.Context, uint, []models.CollectionPrivacy, uint) ([]*models.Collection, error)
	reorderFn           func(context.Context, uint, []uint) error
	addItemFn           func(context.Context, *models.CollectionItem) (bool, error)
	removeItemFn        func(context.Context, uint, string) (bool, error)
	itemsFn             func(context.Context, uint) ([]*models.CollectionItem, error)
	latestItemFn        func(context.Context, uint) (*models.CollectionItem, error)
	setCoverImageFn     func(context.Context, uint, string) error
	listFollowingFeedFn func(context.Context, []uint, uint, int, int) ([]*models.Collection, error)
	listPublicRecentFn  func(context.Context, uint, int, int) ([]*models.Collection, error)
	listPublicByIDsFn   func(context.Context, []uint, uint) ([]*models.Collection, error)
	listPublicPopularFn func(context.Context, uint, int, int) ([]*models.Collection, error)
}

func (s *collectionRepoStub) Create(ctx context.Context, c *models.Collection) error {
	return s.createFn(ctx, c)
}
func (s *collectionRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Collection, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *collectionRepoStub) Update(ctx context.Context, c *models.Collection) error {
	return s.updateFn(ctx, c)
}
func (s *collectionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *collectionRepoStub) ListByOwner(ctx context.Context, ownerID uint, privacies []models.CollectionPrivacy, currentUserID uint) ([]*models.Collection, error) {
	return s.listByOwnerFn(ctx, ownerID, privacies, currentUserID)
}
func (s *collectionRepoStub) Reorder(ctx context.Context, ownerID uint, orderedIDs []uint) error {
	return s.reorderFn(ctx, ownerID, orderedIDs)
}
func (s *collectionRepoStub) AddItem(ctx context.Context, item *models.CollectionItem) (bool, error) {
	return s.addItemFn(ctx, item)
}
func (s *collectionRepoStub) RemoveItem(ctx context.Context, collectionID uint, postID string) (bool, error) {
	return s.removeItemFn(ctx, collectionID, postID)
}
func (s *collectionRepoStub) Items(ctx context.Context, collectionID uint) ([]*models.CollectionItem, error) {
	return s.itemsFn(ctx, collectionID)
}
func (s *collectionRepoStub) LatestItem(ctx context.Context, collectionID uint) (*models.CollectionItem, error) {
	return s.latestItemFn(ctx, collectionID)
}
func (s *collectionRepoStub) SetCoverImage(ctx context.Context, collectionID uint, coverImage string) error {
	return s.setCoverImageFn(ctx, collectionID, coverImage)
}
func (s *collectionRepoStub) ListFollowingFeed(ctx context.Context, followeeIDs []uint, currentUserID uint, limit, offset int) ([]*models.Collection, error) {
	return s.listFollowingFeedFn(ctx, followeeIDs, currentUserID, limit, offset)
}
func (s *collectionRepoStub) ListPublicRecent(ctx context.Context, currentUserID uint, limit, offset int) ([]*models.Collection, error) {
	return s.listPublicRecentFn(ctx, currentUserID, limit, offset)
}
func (s *collectionRepoStub) ListPublicByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.Collection, error) {
	return s.listPublicByIDsFn(ctx, ids, currentUserID)
}
func (s *collectionRepoStub) ListPublicPopular(ctx context.Context, currentUserID uint, limit, offset int) ([]*models.Collection, error) {
	return s.listPublicPopularFn(ctx, currentUserID, limit, offset)
}

func noopCollectionRepo() *collectionRepoStub {
	return &collectionRepoStub{
		createFn: func(_ context.Context, _ *models.Collection) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Collection, error) {
			return &models.Collection{ID: id, OwnerID: 1, Privacy: models.CollectionPrivacyPublic}, nil
		},
		updateFn:      func(_ context.Context, _ *models.Collection) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		listByOwnerFn: func(_ context.Context, _ uint, _ []models.CollectionPrivacy, _ uint) ([]*models.Collection, error) { return nil, nil },
		reorderFn:     func(_ context.Context, _ uint, _ []uint) error { return nil },
		addItemFn:     func(_ context.Context, _ *models.CollectionItem) (bool, error) { return true, nil },
		removeItemFn:  func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
		itemsFn:       func(_ context.Context, _ uint) ([]*models.CollectionItem, error) { return nil, nil },
		latestItemFn: func(_ context.Context, _ uint) (*models.CollectionItem, error) {
			return nil, gorm.ErrRecordNotFound
		},
		setCoverImageFn: func(_ context.Context, _ uint, _ string) error { return nil },
		listFollowingFeedFn: func(_ context.Context, _ []uint, _ uint, _, _ int) ([]*models.Collection, error) {
			return nil, nil
		},
		listPublicRecentFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Collection, error) { return nil, nil },
		listPublicByIDsFn:  func(_ context.Context, _ []uint, _ uint) ([]*models.Collection, error) { return nil, nil },
		listPublicPopularFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Collection, error) {
			return nil, nil
		},
	}
}

// collectionInteractionRepoStub is a stub for repository.CollectionInteractionRepository.
type collectionInteractionRepoStub struct {
	likeFn          func(context.Context, uint, uint) (bool, error)
	unlikeFn        func(context.Context, uint, uint) (bool, error)
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likerIDsFn      func(context.Context, uint) ([]uint, error)
	addCommentFn    func(context.Context, *models.CollectionComment) error
	getCommentFn    func(context.Context, uint) (*models.CollectionComment, error)
	deleteCommentFn func(context.Context, uint) error
	commentsFn      func(context.Context, uint, uint) ([]*models.CollectionComment, error)
	likeCommentFn   func(context.Context, uint, uint) (bool, error)
	unlikeCommentFn func(context.Context, uint, uint) (bool, error)
}

func (s *collectionInteractionRepoStub) Like(ctx context.Context, userID, collectionID uint) (bool, error) {
	return s.likeFn(ctx, userID, collectionID)
}
func (s *collectionInteractionRepoStub) Unlike(ctx context.Context, userID, collectionID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, collectionID)
}
func (s *collectionInteractionRepoStub) IsLiked(ctx context.Context, userID, collectionID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, collectionID)
}
func (s *collectionInteractionRepoStub) LikerIDs(ctx context.Context, collectionID uint) ([]uint, error) {
	return s.likerIDsFn(ctx, collectionID)
}
func (s *collectionInteractionRepoStub) AddComment(ctx context.Context, comment *models.CollectionComment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *collectionInteractionRepoStub) GetComment(ctx context.Context, commentID uint) (*models.CollectionComment, error) {
	return s.getCommentFn(ctx, commentID)
}
func (s *collectionInteractionRepoStub) DeleteComment(ctx context.Context, commentID uint) error {
	return s.deleteCommentFn(ctx, commentID)
}
func (s *collectionInteractionRepoStub) Comments(ctx context.Context, collectionID, currentUserID uint) ([]*models.CollectionComment, error) {
	return s.commentsFn(ctx, collectionID, currentUserID)
}
func (s *collectionInteractionRepoStub) LikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.likeCommentFn(ctx, userID, commentID)
}
func (s *collectionInteractionRepoStub) UnlikeComment(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.unlikeCommentFn(ctx, userID, commentID)
}

func noopCollectionInteractionRepo() *collectionInteractionRepoStub {
	return &collectionInteractionRepoStub{
		likeFn:          func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:        func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likerIDsFn:      func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		addCommentFn:    func(_ context.Context, _ *models.CollectionComment) error { return nil },
		getCommentFn:    func(_ context.Context, id uint) (*models.CollectionComment, error) { return &models.CollectionComment{ID: id}, nil },
		deleteCommentFn: func(_ context.Context, _ uint) error { return nil },
		commentsFn:      func(_ context.Context, _, _ uint) ([]*models.CollectionComment, error) { return nil, nil },
		likeCommentFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeCommentFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// apodRepoStub is a stub for repository.ApodInteractionRepository.
type apodRepoStub struct {
	ensurePostFn    func(context.Context, *models.ApodPost) error
	getPostFn       func(context.Context, string, uint) (*models.ApodPost, error)
	likeFn          func(context.Context, uint, string) (bool, error)
	unlikeFn        func(context.Context, uint, string) (bool, error)
	likerIDsFn      func(context.Context, string) ([]uint, error)
	addCommentFn    func(context.Context, *models.ApodPostComment) error
	getCommentFn    func(context.Context, uint) (*models.ApodPostComment, error)
	deleteCommentFn func(context.Context, uint) error
	commentsFn      func(context.Context, string) ([]*models.ApodPostComment, error)
	savedInFn       func(context.Context, string, uint) ([]models.SavedInCollection, error)
}

func (s *apodRepoStub) EnsurePost(ctx context.Context, post *models.ApodPost) error {
	return s.ensurePostFn(ctx, post)
}
func (s *apodRepoStub) GetPost(ctx context.Context, postID string, currentUserID uint) (*models.ApodPost, error) {
	return s.getPostFn(ctx, postID, currentUserID)
}
func (s *apodRepoStub) Like(ctx context.Context, userID uint, postID string) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *apodRepoStub) Unlike(ctx context.Context, userID uint, postID string) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *apodRepoStub) LikerIDs(ctx context.Context, postID string) ([]uint, error) {
	return s.likerIDsFn(ctx, postID)
}
func (s *apodRepoStub) AddComment(ctx context.Context, comment *models.ApodPostComment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *apodRepoStub) GetComment(ctx context.Context, commentID uint) (*models.ApodPostComment, error) {
	return s.getCommentFn(ctx, commentID)
}
func (s *apodRepoStub) DeleteComment(ctx context.Context, commentID uint) error {
	return s.deleteCommentFn(ctx, commentID)
}
func (s *apodRepoStub) Comments(ctx context.Context, postID string) ([]*models.ApodPostComment, error) {
	return s.commentsFn(ctx, postID)
}
func (s *apodRepoStub) SavedIn(ctx context.Context, postID string, userID uint) ([]models.SavedInCollection, error) {
	return s.savedInFn(ctx, postID, userID)
}

func noopApodRepo() *apodRepoStub {
	return &apodRepoStub{
		ensurePostFn: func(_ context.Context, _ *models.ApodPost) error { return nil },
		getPostFn: func(_ context.Context, postID string, _ uint) (*models.ApodPost, error) {
			return &models.ApodPost{PostID: postID, MediaType: "image"}, nil
		},
		likeFn:          func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
		unlikeFn:        func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
		likerIDsFn:      func(_ context.Context, _ string) ([]uint, error) { return nil, nil },
		addCommentFn:    func(_ context.Context, _ *models.ApodPostComment) error { return nil },
		getCommentFn:    func(_ context.Context, id uint) (*models.ApodPostComment, error) { return &models.ApodPostComment{ID: id}, nil },
		deleteCommentFn: func(_ context.Context, _ uint) error { return nil },
		commentsFn:      func(_ context.Context, _ string) ([]*models.ApodPostComment, error) { return nil, nil },
		savedInFn:       func(_ context.Context, _ string, _ uint) ([]models.SavedInCollection, error) { return nil, nil },
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn        func(context.Context, *models.Message) error
	historyFn       func(context.Context, string) ([]*models.Message, error)
	conversationsFn func(context.Context, uint) ([]*models.ConversationPreview, error)
	markSeenFn      func(context.Context, string, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) History(ctx context.Context, conversationKey string) ([]*models.Message, error) {
	return s.historyFn(ctx, conversationKey)
}
func (s *messageRepoStub) Conversations(ctx context.Context, userID uint) ([]*models.ConversationPreview, error) {
	return s.conversationsFn(ctx, userID)
}
func (s *messageRepoStub) MarkSeen(ctx context.Context, conversationKey string, readerID uint) (int64, error) {
	return s.markSeenFn(ctx, conversationKey, readerID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:        func(_ context.Context, _ *models.Message) error { return nil },
		historyFn:       func(_ context.Context, _ string) ([]*models.Message, error) { return nil, nil },
		conversationsFn: func(_ context.Context, _ uint) ([]*models.ConversationPreview, error) { return nil, nil },
		markSeenFn:      func(_ context.Context, _ string, _ uint) (int64, error) { return 0, nil },
	}
}

// publisherStub records what was published.
type publisherStub struct {
	collectionPublishes []uint
	postPublishes       []string
	chatPublishes       []string
}

func (s *publisherStub) PublishCollection(_ context.Context, collectionID uint, _ string) error {
	s.collectionPublishes = append(s.collectionPublishes, collectionID)
	return nil
}
func (s *publisherStub) PublishPost(_ context.Context, postID string, _ string) error {
	s.postPublishes = append(s.postPublishes, postID)
	return nil
}
func (s *publisherStub) PublishChat(_ context.Context, conversationKey string, _ string) error {
	s.chatPublishes = append(s.chatPublishes, conversationKey)
	return nil
}
