package dto

import "github.com/studysync/studysync-api/internal/models"

// FriendRequestDTO represents a pending friend request with sender details
type FriendRequestDTO struct {
	RequestID uint64 `json:"request_id"`
	From      string `json:"from"`
	Email     string `json:"email"`
}

// ToFriendRequestDTO converts a FriendRequest model with preloaded sender
func ToFriendRequestDTO(request models.FriendRequest) FriendRequestDTO {
	return FriendRequestDTO{
		RequestID: request.ID,
		From:      request.From.Username,
		Email:     request.From.Email,
	}
}

// ToFriendRequestDTOs converts a slice of FriendRequest models
func ToFriendRequestDTOs(requests []models.FriendRequest) []FriendRequestDTO {
	dtos := make([]FriendRequestDTO, len(requests))
	for i, request := range requests {
		dtos[i] = ToFriendRequestDTO(request)
	}
	return dtos
}
