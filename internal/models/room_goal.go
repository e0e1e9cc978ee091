package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomGoal is a shared goal inside a room. Completed is true iff every
// current room member has a completion row; GroupStreak counts consecutive
// all-member completions and never goes below zero.
type RoomGoal struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	RoomID      uint64         `gorm:"not null;index" json:"room_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Deadline    *time.Time     `json:"deadline"`
	CreatedBy   uint64         `gorm:"not null" json:"created_by"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	GroupStreak int            `gorm:"not null;default:0" json:"group_streak"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User                 `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Completions []RoomGoalCompletion `gorm:"foreignKey:RoomGoalID" json:"completions,omitempty"`
}
