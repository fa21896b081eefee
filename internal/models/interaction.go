package models

import (
	"time"

	"gorm.io/gorm"
)

// CollectionLike represents a user's like on a collection.
// The combination of UserID and CollectionID must be unique.
type CollectionLike struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_collection" json:"user_id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_user_collection;index" json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CollectionComment represents a comment on a collection.
type CollectionComment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CollectionID uint           `gorm:"not null;index" json:"collection_id"`
	UserID       uint           `gorm:"not null" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// LikeCount is not persisted; computed at query time.
	LikeCount int `gorm:"->" json:"like_count"`
	// Liked indicates whether the current requesting user liked this comment (computed).
	Liked bool `gorm:"->" json:"liked"`
}

// CollectionCommentLike represents a user's like on a collection comment.
// The combination of UserID and CommentID must be unique.
type CollectionCommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_user_comment;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionSummary is the snapshot pushed to interaction subscribers
// and returned from the interaction read endpoints. Targets with no
// interaction rows yet produce an empty summary, never an error.
type InteractionSummary struct {
	CollectionID uint                `json:"collection_id,omitempty"`
	PostID       string              `json:"post_id,omitempty"`
	Likes        []uint              `json:"likes"`
	LikeCount    int                 `json:"like_count"`
	Comments     []CollectionComment `json:"comments,omitempty"`
	PostComments []ApodPostComment   `json:"post_comments,omitempty"`
	CommentCount int                 `json:"comment_count"`
}
