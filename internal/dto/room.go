package dto

import (
	"time"

	"github.com/studysync/studysync-api/internal/models"
)

// RoomDTO represents a room in list responses
type RoomDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   *UserDTO  `json:"created_by,omitempty"`
	Members     []UserDTO `json:"members,omitempty"`
}

// RoomDetailDTO represents a room with its goals
type RoomDetailDTO struct {
	RoomDTO
	Goals []RoomGoalDTO `json:"goals"`
}

// RoomGoalDTO represents a shared goal in API responses. CompletedBy lists
// the member IDs that have marked the goal complete.
type RoomGoalDTO struct {
	ID          uint64     `json:"id"`
	RoomID      uint64     `json:"room_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	CreatedBy   uint64     `json:"created_by"`
	Completed   bool       `json:"completed"`
	CompletedBy []uint64   `json:"completed_by"`
	GroupStreak int        `json:"group_streak"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MessageDTO represents a chat message with sender details
type MessageDTO struct {
	ID         uint64    `json:"id"`
	RoomID     uint64    `json:"room_id"`
	SenderID   uint64    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToRoomDTO converts a Room model to RoomDTO
func ToRoomDTO(room models.Room) RoomDTO {
	dto := RoomDTO{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
	}

	if room.Creator.ID != 0 {
		creator := ToUserDTO(room.Creator)
		dto.CreatedBy = &creator
	}

	if len(room.Members) > 0 {
		dto.Members = make([]UserDTO, 0, len(room.Members))
		for _, member := range room.Members {
			if member.User.ID != 0 {
				dto.Members = append(dto.Members, ToUserDTO(member.User))
			}
		}
	}

	return dto
}

// ToRoomDTOs converts a slice of Room models
func ToRoomDTOs(rooms []models.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		dtos[i] = ToRoomDTO(room)
	}
	return dtos
}

// ToRoomDetailDTO converts a room with preloaded goals to RoomDetailDTO
func ToRoomDetailDTO(room models.Room) RoomDetailDTO {
	return RoomDetailDTO{
		RoomDTO: ToRoomDTO(room),
		Goals:   ToRoomGoalDTOs(room.Goals),
	}
}

// ToRoomGoalDTO converts a RoomGoal model to RoomGoalDTO
func ToRoomGoalDTO(goal models.RoomGoal) RoomGoalDTO {
	completedBy := make([]uint64, len(goal.Completions))
	for i, completion := range goal.Completions {
		completedBy[i] = completion.UserID
	}

	return RoomGoalDTO{
		ID:          goal.ID,
		RoomID:      goal.RoomID,
		Title:       goal.Title,
		Description: goal.Description,
		Deadline:    goal.Deadline,
		CreatedBy:   goal.CreatedBy,
		Completed:   goal.Completed,
		CompletedBy: completedBy,
		GroupStreak: goal.GroupStreak,
		CreatedAt:   goal.CreatedAt,
	}
}

// ToRoomGoalDTOs converts a slice of RoomGoal models
func ToRoomGoalDTOs(goals []models.RoomGoal) []RoomGoalDTO {
	dtos := make([]RoomGoalDTO, len(goals))
	for i, goal := range goals {
		dtos[i] = ToRoomGoalDTO(goal)
	}
	return dtos
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(message models.Message) MessageDTO {
	dto := MessageDTO{
		ID:        message.ID,
		RoomID:    message.RoomID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
	if message.Sender.ID != 0 {
		dto.SenderName = message.Sender.Username
	}
	return dto
}

// ToMessageDTOs converts a slice of Message models
func ToMessageDTOs(messages []models.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, message := range messages {
		dtos[i] = ToMessageDTO(message)
	}
	return dtos
}
