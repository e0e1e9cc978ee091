package services

import (
	"time"

	"github.com/studysync/studysync-api/internal/constants"
	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
)

// TickOutcome classifies a tick request. The non-updated outcomes are
// reported as successful no-ops, not errors.
type TickOutcome int

const (
	// TickUpdated means the goal state changed.
	TickUpdated TickOutcome = iota
	// TickAlreadyCompleted means the goal was already marked for today.
	TickAlreadyCompleted
	// TickNothingToUndo means there was no same-day completion to undo.
	TickNothingToUndo
)

// TickResult holds the new goal state for an updated tick. The state fields
// are only meaningful when Outcome is TickUpdated.
type TickResult struct {
	Outcome           TickOutcome
	Streak            int
	LastCompletedDate *string
	CompletedToday    bool
}

// ApplyTick computes the streak transition for a mark-complete or undo
// request against the given calendar date. It never touches storage.
//
// Marking continues the streak only when the goal was last completed exactly
// yesterday; any other prior date (or none) restarts at 1. Undoing is valid
// only for a same-day completion: it decrements the streak (floored at 0) and
// clears the completion date, so a re-complete later the same day restarts at
// 1 rather than resuming.
func ApplyTick(goal models.Goal, markComplete bool, today string) TickResult {
	if markComplete {
		if goal.LastCompletedDate != nil && *goal.LastCompletedDate == today {
			return TickResult{Outcome: TickAlreadyCompleted}
		}

		newStreak := 1
		if goal.LastCompletedDate != nil && isYesterday(*goal.LastCompletedDate, today) {
			newStreak = goal.Streak + 1
		}

		date := today
		return TickResult{
			Outcome:           TickUpdated,
			Streak:            newStreak,
			LastCompletedDate: &date,
			CompletedToday:    true,
		}
	}

	if !goal.CompletedToday || goal.LastCompletedDate == nil || *goal.LastCompletedDate != today {
		return TickResult{Outcome: TickNothingToUndo}
	}

	newStreak := goal.Streak - 1
	if newStreak < 0 {
		newStreak = 0
	}

	return TickResult{
		Outcome:           TickUpdated,
		Streak:            newStreak,
		LastCompletedDate: nil,
		CompletedToday:    false,
	}
}

// DecayGoal applies the lazy day-rollover corrections to a goal in place and
// returns the corresponding persisted update. A goal still flagged
// completed-today after the day it was completed loses the flag; a goal whose
// last completion is older than yesterday loses its streak.
func DecayGoal(goal *models.Goal, today string) (repository.GoalDecayUpdate, bool) {
	update := repository.GoalDecayUpdate{GoalID: goal.ID}

	if goal.CompletedToday && (goal.LastCompletedDate == nil || *goal.LastCompletedDate != today) {
		goal.CompletedToday = false
		update.ClearCompletedToday = true
	}

	last := goal.LastCompletedDate
	if last != nil && *last != today && !isYesterday(*last, today) && goal.Streak != 0 {
		goal.Streak = 0
		update.ResetStreak = true
	}

	return update, update.ClearCompletedToday || update.ResetStreak
}

// isYesterday reports whether date is exactly one day before today. Malformed
// dates never match.
func isYesterday(date, today string) bool {
	t, err := time.Parse(constants.DateLayout, today)
	if err != nil {
		return false
	}
	return t.AddDate(0, 0, -1).Format(constants.DateLayout) == date
}
