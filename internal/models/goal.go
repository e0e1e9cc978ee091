package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal is a personal goal with daily streak tracking. LastCompletedDate holds
// a calendar date (constants.DateLayout); CompletedToday is only meaningful
// while LastCompletedDate equals the current date and is lazily corrected on
// listing after a day rollover.
type Goal struct {
	ID                uint64         `gorm:"primarykey" json:"id"`
	UserID            uint64         `gorm:"not null;index" json:"user_id"`
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Streak            int            `gorm:"not null;default:0" json:"streak"`
	LastCompletedDate *string        `gorm:"type:varchar(10)" json:"last_completed_date"`
	CompletedToday    bool           `gorm:"not null;default:false" json:"completed_today"`
	Starred           bool           `gorm:"not null;default:false" json:"starred"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
