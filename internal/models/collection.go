package models

import (
	"time"

	"gorm.io/gorm"
)

// CollectionPrivacy is the visibility level of a collection.
type CollectionPrivacy string

const (
	// CollectionPrivacyPublic makes a collection visible to everyone.
	CollectionPrivacyPublic CollectionPrivacy = "public"
	// CollectionPrivacyFollowers restricts a collection to the owner's followers.
	CollectionPrivacyFollowers CollectionPrivacy = "followers"
	// CollectionPrivacyPrivate restricts a collection to its owner.
	CollectionPrivacyPrivate CollectionPrivacy = "private"
)

// Valid reports whether p is one of the known privacy levels.
func (p CollectionPrivacy) Valid() bool {
	switch p {
	case CollectionPrivacyPublic, CollectionPrivacyFollowers, CollectionPrivacyPrivate:
		return true
	}
	return false
}

// Collection represents a named, privacy-scoped grouping of APOD posts
// owned by a single user.
type Collection struct {
	ID      uint              `gorm:"primaryKey" json:"id"`
	OwnerID uint              `gorm:"not null;index" json:"owner_id"`
	Owner   User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name    string            `gorm:"not null" json:"name"`
	Privacy CollectionPrivacy `gorm:"type:varchar(20);not null;default:'public'" json:"privacy"`
	// CoverImage is derived from the most recently added item; empty when
	// the collection has no items or the latest item is not an image.
	CoverImage string `json:"cover_image"`
	// Position orders the collection inside the owner's profile.
	Position  int            `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CollectionItem `gorm:"foreignKey:CollectionID" json:"items,omitempty"`

	// ItemCount, LikeCount and CommentCount are not persisted; computed at query time.
	ItemCount    int `gorm:"->" json:"item_count"`
	LikeCount    int `gorm:"->" json:"like_count"`
	CommentCount int `gorm:"->" json:"comment_count"`
	// Liked indicates whether the current requesting user liked this collection (computed).
	Liked bool `gorm:"->" json:"liked"`
}

// CollectionItem is the membership of an APOD post in a collection.
// The combination of CollectionID and PostID must be unique, so a
// collection holds at most one entry per post.
type CollectionItem struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CollectionID uint   `gorm:"not null;uniqueIndex:idx_collection_post" json:"collection_id"`
	PostID       string `gorm:"type:varchar(10);not null;uniqueIndex:idx_collection_post" json:"post_id"`
	// Type records the item source; only "apod" exists today.
	Type    string    `gorm:"type:varchar(20);not null;default:'apod'" json:"type"`
	AddedAt time.Time `gorm:"not null;index" json:"added_at"`
}

// ToggleResult reports whether a toggle added or removed membership.
type ToggleResult string

const (
	// ToggleAdded means the toggle inserted the membership.
	ToggleAdded ToggleResult = "added"
	// ToggleRemoved means the toggle deleted the membership.
	ToggleRemoved ToggleResult = "removed"
)
