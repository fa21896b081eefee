package models

import (
	"fmt"
	"time"
)

// Message represents a direct message between two users. Messages are
// grouped by ConversationKey, which is identical for both participants
// regardless of send direction.
type Message struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ConversationKey string `gorm:"type:varchar(64);not null;index" json:"conversation_key"`
	FromID          uint   `gorm:"not null;index" json:"from_id"`
	From            *User  `gorm:"foreignKey:FromID" json:"from,omitempty"`
	ToID            uint   `gorm:"not null;index" json:"to_id"`
	To              *User  `gorm:"foreignKey:ToID" json:"to,omitempty"`
	Text            string `gorm:"type:text;not null" json:"text"`
	// Seen is a read receipt set when the recipient opens the conversation.
	Seen      bool      `gorm:"default:false" json:"seen"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ConversationKey derives the canonical conversation identifier for two
// users: the smaller id first, joined with an underscore. Commutative,
// so both participants resolve to the same conversation.
func ConversationKey(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// ConversationPreview is a chat-list entry: the other participant plus
// the latest message exchanged with them.
type ConversationPreview struct {
	Partner     User    `json:"partner"`
	LastMessage Message `json:"last_message"`
	UnreadCount int     `json:"unread_count"`
}
