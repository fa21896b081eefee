package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/BarishY/Astroverse/internal/middleware"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/repository"

	"gorm.io/gorm"
)

// ChatPublisher pushes new messages to the conversation's live
// subscribers.
type ChatPublisher interface {
	PublishChat(ctx context.Context, conversationKey string, payload string) error
}

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	publisher   ChatPublisher
}

type SendMessageInput struct {
	FromID uint
	ToID   uint
	Text   string
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, publisher ChatPublisher) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo, publisher: publisher}
}

const maxMessageLen = 2000

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Message text is required")
	}
	if len(text) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}
	if in.FromID == in.ToID {
		return nil, models.NewValidationError("Cannot message yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, in.ToID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.ToID)
		}
		return nil, err
	}

	message := &models.Message{
		ConversationKey: models.ConversationKey(in.FromID, in.ToID),
		FromID:          in.FromID,
		ToID:            in.ToID,
		Text:            text,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	middleware.MessagesSent.Inc()

	if s.publisher != nil {
		if payload, err := json.Marshal(message); err == nil {
			if err := s.publisher.PublishChat(ctx, message.ConversationKey, string(payload)); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to publish chat message", "conversation_key", message.ConversationKey, "error", err)
			}
		}
	}
	return message, nil
}

// History returns the recent messages between userID and otherID in
// chronological order.
func (s *MessageService) History(ctx context.Context, userID, otherID uint) ([]*models.Message, error) {
	messages, err := s.messageRepo.History(ctx, models.ConversationKey(userID, otherID))
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return messages, nil
}

// Conversations lists the user's chats, one preview per partner.
func (s *MessageService) Conversations(ctx context.Context, userID uint) ([]*models.ConversationPreview, error) {
	previews, err := s.messageRepo.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if previews == nil {
		previews = []*models.ConversationPreview{}
	}
	return previews, nil
}

// MarkSeen flags the conversation's unread messages addressed to
// userID as seen and returns how many were updated.
func (s *MessageService) MarkSeen(ctx context.Context, userID, otherID uint) (int64, error) {
	return s.messageRepo.MarkSeen(ctx, models.ConversationKey(userID, otherID), userID)
}
