package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrRoomNotFound and ErrNotRoomMember are distinct internally so tests
	// can assert the precise cause; handlers merge them into one response to
	// avoid leaking room existence to non-members.
	ErrRoomNotFound        = errors.New("room not found")
	ErrNotRoomMember       = errors.New("user is not a member of the room")
	ErrRoomGoalNotFound    = errors.New("goal not found in room")
	ErrNotRoomCreator      = errors.New("only the room creator can perform this action")
	ErrRoomNameRequired    = errors.New("room name is required")
	ErrInvalidRoomMember   = errors.New("one or more invited users do not exist")
	ErrMessageTextRequired = errors.New("message text is required")
)

// RoomService handles collaborative room business logic, including the
// group completion engine.
type RoomService struct {
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
}

// NewRoomService creates a new RoomService
func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		userRepo: userRepo,
	}
}

// CreateRoomInput represents parameters to create a new room
type CreateRoomInput struct {
	Name        string
	Description string
	CreatorID   uint64
	MemberIDs   []uint64
}

// CreateRoom creates a room with a fixed member set: the creator plus the
// invited users.
func (s *RoomService) CreateRoom(input CreateRoomInput) (*models.Room, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrRoomNameRequired
	}

	memberIDs := uniqueUint64(append([]uint64{input.CreatorID}, input.MemberIDs...))

	count, err := s.userRepo.CountByIDs(memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify members: %w", err)
	}
	if int(count) != len(memberIDs) {
		return nil, ErrInvalidRoomMember
	}

	room := &models.Room{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   input.CreatorID,
	}

	if err := s.roomRepo.Create(room, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

// ListRooms returns the rooms the user belongs to with creator and member
// details.
func (s *RoomService) ListRooms(userID uint64) ([]models.Room, error) {
	rooms, err := s.roomRepo.ListByMember(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// GetRoom returns a room with full details if the user is a member.
func (s *RoomService) GetRoom(roomID, userID uint64) (*models.Room, error) {
	if err := s.requireMember(roomID, userID); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.FindByID(roomID,
		"Creator", "Members", "Members.User", "Goals", "Goals.Completions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return room, nil
}

// DeleteRoom removes a room. Only the creator may delete it.
func (s *RoomService) DeleteRoom(roomID, userID uint64) error {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to find room: %w", err)
	}

	if room.CreatorID != userID {
		return ErrNotRoomCreator
	}

	if err := s.roomRepo.Delete(roomID); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// AddGoalInput represents parameters to add a goal to a room
type AddGoalInput struct {
	RoomID      uint64
	UserID      uint64
	Title       string
	Description string
	Deadline    *time.Time
}

// AddGoal appends a shared goal to a room the user belongs to.
func (s *RoomService) AddGoal(input AddGoalInput) (*models.RoomGoal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrGoalTitleRequired
	}

	if err := s.requireMember(input.RoomID, input.UserID); err != nil {
		return nil, err
	}

	goal := &models.RoomGoal{
		RoomID:      input.RoomID,
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		CreatedBy:   input.UserID,
	}

	if err := s.roomRepo.AddGoal(goal); err != nil {
		return nil, fmt.Errorf("failed to add goal: %w", err)
	}

	return goal, nil
}

// ListGoals returns the goals of a room the user belongs to.
func (s *RoomService) ListGoals(roomID, userID uint64) ([]models.RoomGoal, error) {
	if err := s.requireMember(roomID, userID); err != nil {
		return nil, err
	}

	goals, err := s.roomRepo.ListGoals(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// ToggleGoalResult reports a completion toggle on a room goal.
type ToggleGoalResult struct {
	Goal          *models.RoomGoal
	UserCompleted bool
}

// ToggleGoalCompletion flips the caller's completion mark on a room goal and
// updates the group streak when the toggle crosses the all-members boundary.
// The read-compute-write cycle runs under a row lock so concurrent toggles by
// different members serialize.
func (s *RoomService) ToggleGoalCompletion(roomID, goalID, userID uint64) (*ToggleGoalResult, error) {
	if err := s.requireMember(roomID, userID); err != nil {
		return nil, err
	}

	var userCompleted bool
	goal, err := s.roomRepo.MutateGoal(roomID, goalID, func(goal *models.RoomGoal, memberIDs, completedBy []uint64) (repository.RoomGoalChange, error) {
		result := ApplyGroupToggle(memberIDs, completedBy, userID, goal.GroupStreak)
		userCompleted = result.UserCompleted

		return repository.RoomGoalChange{
			AddCompletion:    result.AddUserID,
			RemoveCompletion: result.RemoveUserID,
			GroupStreak:      result.GroupStreak,
			Completed:        result.Completed,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomGoalNotFound
		}
		return nil, fmt.Errorf("failed to toggle goal completion: %w", err)
	}

	return &ToggleGoalResult{
		Goal:          goal,
		UserCompleted: userCompleted,
	}, nil
}

// DeleteGoal removes a goal from a room the user belongs to.
func (s *RoomService) DeleteGoal(roomID, goalID, userID uint64) error {
	if err := s.requireMember(roomID, userID); err != nil {
		return err
	}

	affected, err := s.roomRepo.DeleteGoal(roomID, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if affected == 0 {
		return ErrRoomGoalNotFound
	}
	return nil
}

// PostMessage appends a chat message to a room the user belongs to.
func (s *RoomService) PostMessage(roomID, userID uint64, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMessageTextRequired
	}

	if err := s.requireMember(roomID, userID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sender: %w", err)
	}

	message := &models.Message{
		RoomID:   roomID,
		SenderID: userID,
		Text:     text,
	}

	if err := s.roomRepo.AddMessage(message); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	message.Sender = *sender
	return message, nil
}

// ListMessages returns a room's messages, optionally only those after since.
func (s *RoomService) ListMessages(roomID, userID uint64, since *time.Time) ([]models.Message, error) {
	if err := s.requireMember(roomID, userID); err != nil {
		return nil, err
	}

	messages, err := s.roomRepo.ListMessages(roomID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// IsMember reports whether the user belongs to the room. Used by the realtime
// relay to gate channel joins.
func (s *RoomService) IsMember(roomID, userID uint64) bool {
	member, err := s.roomRepo.IsMember(roomID, userID)
	if err != nil {
		return false
	}
	return member
}

// requireMember is the membership-gated access predicate for all room-scoped
// operations.
func (s *RoomService) requireMember(roomID, userID uint64) error {
	if _, err := s.roomRepo.FindByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to find room: %w", err)
	}

	member, err := s.roomRepo.IsMember(roomID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify room membership: %w", err)
	}
	if !member {
		return ErrNotRoomMember
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
