package models

import "time"

// ApodPost is the interaction anchor for an externally-sourced APOD
// entry, keyed by its YYYY-MM-DD date string. The row is created lazily
// on first interaction with a metadata snapshot from the triggering
// call and is never re-synced against the APOD API afterwards.
type ApodPost struct {
	PostID             string    `gorm:"primaryKey;type:varchar(10)" json:"post_id"`
	Title              string    `json:"title"`
	URL                string    `json:"url"`
	MediaType          string    `gorm:"type:varchar(20)" json:"media_type"`
	FirstInteractionAt time.Time `json:"first_interaction_at"`

	// LikeCount and CommentCount are not persisted; computed at query time.
	LikeCount    int `gorm:"->" json:"like_count"`
	CommentCount int `gorm:"->" json:"comment_count"`
	// Liked indicates whether the current requesting user liked this post (computed).
	Liked bool `gorm:"->" json:"liked"`
}

// ApodPostLike represents a user's like on an APOD post.
// The combination of UserID and PostID must be unique.
type ApodPostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_apod_post" json:"user_id"`
	PostID    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_user_apod_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ApodPostComment represents a comment on an APOD post.
type ApodPostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(10);not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedInCollection names a collection an APOD post is saved in. It is
// derived by joining collection items with their collections rather
// than being mirrored into a denormalized array.
type SavedInCollection struct {
	UserID         uint   `json:"user_id"`
	CollectionID   uint   `json:"collection_id"`
	CollectionName string `json:"collection_name"`
}
