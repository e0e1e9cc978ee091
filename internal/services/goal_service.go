package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalTitleRequired = errors.New("title is required")
)

// GoalService handles personal goal business logic, including the streak
// state machine.
type GoalService struct {
	goalRepo repository.GoalRepository
	clock    Clock
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo repository.GoalRepository, clock Clock) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		clock:    clock,
	}
}

// CreateGoalInput represents input for creating a goal
type CreateGoalInput struct {
	UserID      uint64
	Title       string
	Description string
}

// CreateGoal creates a new goal with a fresh streak
func (s *GoalService) CreateGoal(input CreateGoalInput) (*models.Goal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrGoalTitleRequired
	}

	goal := &models.Goal{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
	}

	if err := s.goalRepo.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// TickGoalResult reports the outcome of a tick request. Goal reflects the
// state after the operation, including for no-op outcomes.
type TickGoalResult struct {
	Outcome   TickOutcome
	Goal      *models.Goal
	NewStreak int
}

// Tick marks a goal complete or undoes a same-day completion. The
// read-compute-write cycle runs under a row lock so concurrent ticks on the
// same goal serialize.
func (s *GoalService) Tick(goalID, userID uint64, markComplete bool) (*TickGoalResult, error) {
	today := s.clock.Today()

	var outcome TickOutcome
	var newStreak int
	goal, err := s.goalRepo.Mutate(goalID, userID, func(g *models.Goal) (bool, error) {
		result := ApplyTick(*g, markComplete, today)
		outcome = result.Outcome
		if result.Outcome != TickUpdated {
			newStreak = g.Streak
			return false, nil
		}

		g.Streak = result.Streak
		g.LastCompletedDate = result.LastCompletedDate
		g.CompletedToday = result.CompletedToday
		newStreak = result.Streak
		return true, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to tick goal: %w", err)
	}

	return &TickGoalResult{
		Outcome:   outcome,
		Goal:      goal,
		NewStreak: newStreak,
	}, nil
}

// ListGoals returns all of the user's goals with day-rollover corrections
// applied. Corrections are persisted as a batch and reflected in the returned
// goals, so no scheduled midnight job is needed.
func (s *GoalService) ListGoals(userID uint64) ([]models.Goal, error) {
	today := s.clock.Today()

	goals, err := s.goalRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	var updates []repository.GoalDecayUpdate
	for i := range goals {
		if update, needed := DecayGoal(&goals[i], today); needed {
			updates = append(updates, update)
		}
	}

	if err := s.goalRepo.ApplyDecay(updates); err != nil {
		return nil, fmt.Errorf("failed to apply goal decay: %w", err)
	}

	return goals, nil
}

// ToggleStar flips the starred flag on a goal
func (s *GoalService) ToggleStar(goalID, userID uint64) (*models.Goal, error) {
	goal, err := s.goalRepo.FindByOwner(goalID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}

	goal.Starred = !goal.Starred
	if err := s.goalRepo.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

// DeleteGoal deletes a goal owned by the user
func (s *GoalService) DeleteGoal(goalID, userID uint64) error {
	affected, err := s.goalRepo.Delete(goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if affected == 0 {
		return ErrGoalNotFound
	}
	return nil
}
