package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending FriendRequestStatus = "pending"
)

type FriendRequest struct {
	ID         uint64              `gorm:"primarykey" json:"id"`
	FromUserID uint64              `gorm:"not null;index" json:"from_user_id"`
	ToUserID   uint64              `gorm:"not null;index" json:"to_user_id"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time           `json:"created_at"`

	// Relations
	From User `gorm:"foreignKey:FromUserID" json:"from,omitempty"`
	To   User `gorm:"foreignKey:ToUserID" json:"to,omitempty"`
}

// Friendship is directional; accepting a request inserts both directions.
type Friendship struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	FriendID  uint64    `gorm:"primarykey" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Friend User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}
