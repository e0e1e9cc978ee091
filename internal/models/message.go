package models

import "time"

type Message struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	RoomID    uint64    `gorm:"not null;index" json:"room_id"`
	SenderID  uint64    `gorm:"not null" json:"sender_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
