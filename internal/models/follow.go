package models

import "time"

// Follow represents a directed follow edge between two users.
// "A follows B" makes A one of B's followers. The combination of
// FollowerID and FolloweeID must be unique.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}
