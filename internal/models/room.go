package models

import (
	"time"

	"gorm.io/gorm"
)

// Room is a collaborative study room. Membership is fixed at creation time
// (the creator plus invited friends); there is no add/remove-member operation.
type Room struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator  User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members  []RoomMember `gorm:"foreignKey:RoomID" json:"members,omitempty"`
	Goals    []RoomGoal   `gorm:"foreignKey:RoomID" json:"goals,omitempty"`
	Messages []Message    `gorm:"foreignKey:RoomID" json:"-"`
}
