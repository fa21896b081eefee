package repository

import (
	"context"

	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// historyLimit caps how many messages a conversation page returns.
const historyLimit = 50

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	History(ctx context.Context, conversationKey string) ([]*models.Message, error)
	Conversations(ctx context.Context, userID uint) ([]*models.ConversationPreview, error)
	MarkSeen(ctx context.Context, conversationKey string, readerID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ConversationKey == "" {
		message.ConversationKey = models.ConversationKey(message.FromID, message.ToID)
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// History returns the newest messages of a conversation in ascending
// order. The query takes the newest rows and reverses them so a full
// conversation still yields the most recent page.
func (r *messageRepository) History(ctx context.Context, conversationKey string) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("From").
		Where("conversation_key = ?", conversationKey).
		Order("created_at DESC, id DESC").
		Limit(historyLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Conversations returns one preview per chat partner, newest first.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]*models.ConversationPreview, error) {
	var latest []*models.Message
	err := r.db.WithContext(ctx).
		Raw(`SELECT m.* FROM messages m
		     JOIN (SELECT conversation_key, MAX(id) AS max_id
		           FROM messages
		           WHERE from_id = ? OR to_id = ?
		           GROUP BY conversation_key) last
		       ON last.max_id = m.id
		     ORDER BY m.created_at DESC`, userID, userID).
		Scan(&latest).Error
	if err != nil {
		return nil, err
	}

	previews := make([]*models.ConversationPreview, 0, len(latest))
	for _, msg := range latest {
		partnerID := msg.FromID
		if partnerID == userID {
			partnerID = msg.ToID
		}
		var partner models.User
		if err := r.db.WithContext(ctx).First(&partner, partnerID).Error; err != nil {
			return nil, err
		}
		var unread int64
		err := r.db.WithContext(ctx).
			Model(&models.Message{}).
			Where("conversation_key = ? AND to_id = ? AND seen = ?", msg.ConversationKey, userID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}
		previews = append(previews, &models.ConversationPreview{
			Partner:     partner,
			LastMessage: *msg,
			UnreadCount: int(unread),
		})
	}
	return previews, nil
}

// MarkSeen flags every unseen message addressed to readerID in the
// conversation and returns how many were updated.
func (r *messageRepository) MarkSeen(ctx context.Context, conversationKey string, readerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_key = ? AND to_id = ? AND seen = ?", conversationKey, readerID, false).
		Update("seen", true)
	return result.RowsAffected, result.Error
}
