package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/BarishY/Astroverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_HistoryOrderAndLimit(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < historyLimit+10; i++ {
		msg := &models.Message{FromID: alice.ID, ToID: bob.ID, Text: fmt.Sprintf("msg %d", i)}
		require.NoError(t, repo.Create(ctx, msg))
	}

	key := models.ConversationKey(alice.ID, bob.ID)
	history, err := repo.History(ctx, key)
	require.NoError(t, err)
	require.Len(t, history, historyLimit)

	// oldest of the retained window first, newest last
	assert.Equal(t, "msg 10", history[0].Text)
	assert.Equal(t, fmt.Sprintf("msg %d", historyLimit+9), history[historyLimit-1].Text)
}

func TestMessageRepository_ConversationKeyIsShared(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Message{FromID: alice.ID, ToID: bob.ID, Text: "hi"}))
	require.NoError(t, repo.Create(ctx, &models.Message{FromID: bob.ID, ToID: alice.ID, Text: "hey"}))

	history, err := repo.History(ctx, models.ConversationKey(bob.ID, alice.ID))
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestMessageRepository_Conversations(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Message{FromID: alice.ID, ToID: bob.ID, Text: "to bob"}))
	require.NoError(t, repo.Create(ctx, &models.Message{FromID: carol.ID, ToID: alice.ID, Text: "from carol 1"}))
	require.NoError(t, repo.Create(ctx, &models.Message{FromID: carol.ID, ToID: alice.ID, Text: "from carol 2"}))

	previews, err := repo.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, previews, 2)

	// newest conversation first, one entry per partner
	assert.Equal(t, "carol", previews[0].Partner.Username)
	assert.Equal(t, "from carol 2", previews[0].LastMessage.Text)
	assert.Equal(t, 2, previews[0].UnreadCount)
	assert.Equal(t, "bob", previews[1].Partner.Username)
	assert.Zero(t, previews[1].UnreadCount)
}

func TestMessageRepository_MarkSeen(t *testing.T) {
	t.Parallel()
	db := setupRepoTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Message{FromID: alice.ID, ToID: bob.ID, Text: "one"}))
	require.NoError(t, repo.Create(ctx, &models.Message{FromID: alice.ID, ToID: bob.ID, Text: "two"}))
	require.NoError(t, repo.Create(ctx, &models.Message{FromID: bob.ID, ToID: alice.ID, Text: "reply"}))

	key := models.ConversationKey(alice.ID, bob.ID)
	updated, err := repo.MarkSeen(ctx, key, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	// only messages addressed to the reader are flagged
	history, err := repo.History(ctx, key)
	require.NoError(t, err)
	for _, msg := range history {
		if msg.ToID == bob.ID {
			assert.True(t, msg.Seen)
		} else {
			assert.False(t, msg.Seen)
		}
	}

	updated, err = repo.MarkSeen(ctx, key, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
