package repository

import (
	"time"

	"github.com/studysync/studysync-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []uint64) (int64, error)
}

// TaskRepository defines the interface for personal task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwner finds a task by ID scoped to its owner
	FindByOwner(id, userID uint64) (*models.Task, error)

	// ListByOwner retrieves a user's tasks with pagination
	ListByOwner(userID uint64, page, pageSize int) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task scoped to its owner; returns affected rows
	Delete(id, userID uint64) (int64, error)
}

// GoalMutator computes the new state of a goal in place. It reports whether
// the goal changed and must be persisted. It runs inside a transaction that
// holds a row lock on the goal, so concurrent ticks serialize.
type GoalMutator func(goal *models.Goal) (changed bool, err error)

// GoalDecayUpdate describes the lazy day-rollover corrections for one goal.
type GoalDecayUpdate struct {
	GoalID              uint64
	ClearCompletedToday bool
	ResetStreak         bool
}

// GoalRepository defines the interface for personal goal data access
type GoalRepository interface {
	// Create creates a new goal
	Create(goal *models.Goal) error

	// FindByOwner finds a goal by ID scoped to its owner
	FindByOwner(id, userID uint64) (*models.Goal, error)

	// ListByOwner retrieves all goals of a user
	ListByOwner(userID uint64) ([]models.Goal, error)

	// Mutate loads the goal under a row lock, applies fn, and persists the
	// result when fn reports a change, all in one transaction.
	Mutate(id, userID uint64, fn GoalMutator) (*models.Goal, error)

	// ApplyDecay persists a batch of day-rollover corrections
	ApplyDecay(updates []GoalDecayUpdate) error

	// Update updates a goal
	Update(goal *models.Goal) error

	// Delete soft deletes a goal scoped to its owner; returns affected rows
	Delete(id, userID uint64) (int64, error)
}

// RoomGoalChange describes the persisted outcome of a completion toggle.
// Nil fields are left untouched.
type RoomGoalChange struct {
	AddCompletion    *uint64
	RemoveCompletion *uint64
	GroupStreak      *int
	Completed        *bool
}

// RoomGoalMutator decides a completion toggle given the goal, the room's
// current member IDs, and the IDs that have completed the goal. It runs
// inside a transaction holding a row lock on the goal.
type RoomGoalMutator func(goal *models.RoomGoal, memberIDs, completedBy []uint64) (RoomGoalChange, error)

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	// Create creates a room and its member rows in one transaction
	Create(room *models.Room, memberIDs []uint64) error

	// FindByID finds a room by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Room, error)

	// ListByMember lists rooms the user belongs to
	ListByMember(userID uint64) ([]models.Room, error)

	// IsMember reports whether the user is a member of the room
	IsMember(roomID, userID uint64) (bool, error)

	// Delete deletes a room and all related data
	Delete(id uint64) error

	// AddGoal appends a goal to a room
	AddGoal(goal *models.RoomGoal) error

	// ListGoals lists a room's goals with completions
	ListGoals(roomID uint64) ([]models.RoomGoal, error)

	// MutateGoal loads the goal under a row lock together with the member and
	// completion sets, applies fn, persists the change, and returns the
	// reloaded goal.
	MutateGoal(roomID, goalID uint64, fn RoomGoalMutator) (*models.RoomGoal, error)

	// DeleteGoal deletes a room goal; returns affected rows
	DeleteGoal(roomID, goalID uint64) (int64, error)

	// AddMessage appends a chat message
	AddMessage(message *models.Message) error

	// ListMessages lists a room's messages, optionally only those after since
	ListMessages(roomID uint64, since *time.Time) ([]models.Message, error)
}

// FriendRepository defines the interface for friend data access
type FriendRepository interface {
	// CreateRequest creates a friend request
	CreateRequest(request *models.FriendRequest) error

	// FindRequest finds a pending request between two users
	FindRequest(fromUserID, toUserID uint64) (*models.FriendRequest, error)

	// FindRequestByID finds a request by ID
	FindRequestByID(id uint64) (*models.FriendRequest, error)

	// ListPending lists pending requests addressed to a user
	ListPending(toUserID uint64) ([]models.FriendRequest, error)

	// Accept inserts both friendship directions and removes the request in
	// one transaction
	Accept(request *models.FriendRequest) error

	// DeleteRequest removes a request
	DeleteRequest(id uint64) error

	// ListFriends lists a user's friends
	ListFriends(userID uint64) ([]models.User, error)

	// AreFriends reports whether two users are friends
	AreFriends(userID, otherID uint64) (bool, error)
}
