package service

import (
	"context"
	"testing"

	"github.com/BarishY/Astroverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSocialService_FollowUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("cannot follow yourself", func(t *testing.T) {
		t.Parallel()
		svc := NewSocialService(noopUserRepo(), noopFollowRepo())
		err := svc.FollowUser(ctx, 1, 1)
		assertValidationError(t, err)
	})

	t.Run("unknown followee", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewSocialService(users, noopFollowRepo())
		err := svc.FollowUser(ctx, 1, 2)
		assertNotFoundError(t, err)
	})

	t.Run("creates edge", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		var gotFollower, gotFollowee uint
		follows.followFn = func(_ context.Context, followerID, followeeID uint) error {
			gotFollower, gotFollowee = followerID, followeeID
			return nil
		}
		svc := NewSocialService(noopUserRepo(), follows)
		require.NoError(t, svc.FollowUser(ctx, 1, 2))
		assert.EqualValues(t, 1, gotFollower)
		assert.EqualValues(t, 2, gotFollowee)
	})
}

func TestSocialService_UnfollowUser(t *testing.T) {
	t.Parallel()
	svc := NewSocialService(noopUserRepo(), noopFollowRepo())
	err := svc.UnfollowUser(context.Background(), 1, 1)
	assertValidationError(t, err)
}

func TestSocialService_SearchUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		t.Parallel()
		svc := NewSocialService(noopUserRepo(), noopFollowRepo())
		_, err := svc.SearchUsers(ctx, "  ", 10)
		assertValidationError(t, err)
	})

	t.Run("clamps limit", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		var gotLimit int
		users.searchByPrefixFn = func(_ context.Context, _ string, limit int) ([]*models.User, error) {
			gotLimit = limit
			return nil, nil
		}
		svc := NewSocialService(users, noopFollowRepo())

		results, err := svc.SearchUsers(ctx, "ast", 500)
		require.NoError(t, err)
		assert.Equal(t, 20, gotLimit)
		assert.NotNil(t, results)
	})
}

func TestSocialService_GetProfile(t *testing.T) {
	t.Parallel()
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "stargazer" {
			return &models.User{ID: 1, Username: "stargazer"}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewSocialService(users, noopFollowRepo())

	user, err := svc.GetProfile(context.Background(), "stargazer")
	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)

	_, err = svc.GetProfile(context.Background(), "ghost")
	assertNotFoundError(t, err)
}
