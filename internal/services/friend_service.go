package services

import (
	"errors"
	"fmt"

	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrFriendRequestNotFound    = errors.New("friend request not found")
	ErrFriendRequestAlreadySent = errors.New("request already sent")
	ErrCannotFriendSelf         = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends           = errors.New("users are already friends")
	ErrInvalidFriendAction      = errors.New("action must be accept or reject")
)

// FriendService handles friend request and friendship business logic
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService creates a new FriendService
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest creates a pending friend request addressed by email.
func (s *FriendService) SendRequest(fromUserID uint64, toEmail string) error {
	toUser, err := s.userRepo.FindByEmail(toEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if toUser.ID == fromUserID {
		return ErrCannotFriendSelf
	}

	friends, err := s.friendRepo.AreFriends(fromUserID, toUser.ID)
	if err != nil {
		return fmt.Errorf("failed to check friendship: %w", err)
	}
	if friends {
		return ErrAlreadyFriends
	}

	if _, err := s.friendRepo.FindRequest(fromUserID, toUser.ID); err == nil {
		return ErrFriendRequestAlreadySent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing request: %w", err)
	}

	request := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   toUser.ID,
		Status:     models.FriendRequestPending,
	}

	if err := s.friendRepo.CreateRequest(request); err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}

	return nil
}

// ListPending returns pending requests addressed to the user with sender
// details.
func (s *FriendService) ListPending(userID uint64) ([]models.FriendRequest, error) {
	requests, err := s.friendRepo.ListPending(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requests, nil
}

// Respond accepts or rejects a pending request addressed to the user.
// Accepting inserts both friendship directions; either way the request is
// removed.
func (s *FriendService) Respond(requestID, userID uint64, action string) error {
	if action != "accept" && action != "reject" {
		return ErrInvalidFriendAction
	}

	request, err := s.friendRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendRequestNotFound
		}
		return fmt.Errorf("failed to find friend request: %w", err)
	}

	// Requests are only actionable by their addressee; reported as not found
	// to avoid leaking other users' requests.
	if request.ToUserID != userID {
		return ErrFriendRequestNotFound
	}

	if action == "accept" {
		if err := s.friendRepo.Accept(request); err != nil {
			return fmt.Errorf("failed to accept friend request: %w", err)
		}
		return nil
	}

	if err := s.friendRepo.DeleteRequest(request.ID); err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}
	return nil
}

// ListFriends returns the user's friends.
func (s *FriendService) ListFriends(userID uint64) ([]models.User, error) {
	friends, err := s.friendRepo.ListFriends(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}
