package models

import "time"

// RoomGoalCompletion is one member's completion mark on a room goal
// (the completedBy set).
type RoomGoalCompletion struct {
	RoomGoalID uint64    `gorm:"primarykey" json:"room_goal_id"`
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	RoomGoal RoomGoal `gorm:"foreignKey:RoomGoalID" json:"room_goal,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
